package graph

import (
	"context"
	"time"

	"github.com/Ravou/Neurograph/internal/types"
)

// Direction indicates which end of a relationship the anchor node occupies.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Node is a labeled record returned from the graph. ID is the canonical
// graph-wide identifier stored in the node's "id" property.
type Node struct {
	ID     string         `json:"id"`
	Labels []string       `json:"labels"`
	Props  map[string]any `json:"props"`
}

// Relationship describes one edge adjacent to an anchor node, as returned by
// GetRelationships. Neighbor is the node at the far end.
type Relationship struct {
	Type      string
	Direction Direction
	Props     map[string]any
	Neighbor  Node
}

// SearchHit is a full-text match with the store's native relevance score.
type SearchHit struct {
	Node  Node
	Score float64
}

// GraphClient provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access.
type GraphClient interface {
	// Connect establishes a connection to the graph database.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	Close(ctx context.Context) error

	// Health returns the current health status of the graph connection.
	Health(ctx context.Context) types.HealthStatus

	// Query executes a Cypher query in a read transaction.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Write executes a Cypher statement in a write transaction. Schema
	// declarations (CREATE CONSTRAINT ... IF NOT EXISTS) go through here.
	Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// UpsertNode merges a node by canonical id, creating it with the given
	// label if absent and overlaying the supplied properties if present.
	// Callers must not pass nil property values. Returns the node as stored
	// after the write.
	UpsertNode(ctx context.Context, label, id string, props map[string]any) (Node, error)

	// GetNode fetches a node by canonical id. Returns an error with code
	// ErrCodeGraphNodeNotFound when no node carries the id.
	GetNode(ctx context.Context, id string) (Node, error)

	// GetRelationships lists the edges adjacent to a node, both directions,
	// ordered by relationship type and bounded by limit. Returns
	// ErrCodeGraphNodeNotFound when the anchor node is absent and an empty
	// slice when it exists but has no edges.
	GetRelationships(ctx context.Context, id string, limit int) ([]Relationship, error)

	// UpsertRelationship merges a single directed edge of the given type
	// between two existing nodes. Returns ErrCodeGraphEndpointNotFound when
	// either endpoint is absent; never creates placeholder endpoints.
	UpsertRelationship(ctx context.Context, fromID, relType, toID string, props map[string]any) error

	// FullTextSearch queries a named full-text index, returning hits in
	// non-increasing score order, at most limit.
	FullTextSearch(ctx context.Context, index, query string, limit int) ([]SearchHit, error)

	// MatchByProperty finds nodes of a label whose string property equals
	// the value case-insensitively, or starts with it when prefix is true.
	MatchByProperty(ctx context.Context, label, property, value string, prefix bool) ([]Node, error)
}

// QueryResult represents the result of a Cypher query execution.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	ExecutionTime        time.Duration
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use:
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Database name to connect to. Empty string uses the default database.
	Database string

	// MaxConnectionPoolSize limits the number of connections in the pool.
	// Zero or negative values use the driver default.
	MaxConnectionPoolSize int

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration

	// MaxTransactionRetryTime is the maximum time to retry failed transactions.
	MaxTransactionRetryTime time.Duration
}

// DefaultConfig returns a GraphClientConfig with sensible defaults.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		Password:                "password",
		Database:                "",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.MaxTransactionRetryTime <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "MaxTransactionRetryTime must be positive")
	}
	return nil
}
