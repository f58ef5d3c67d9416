package graph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Ravou/Neurograph/internal/types"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// neo4jConstraintViolation is the server-side status code returned when a
// write collides with a uniqueness constraint.
const neo4jConstraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// Neo4jClient implements GraphClient for Neo4j graph databases.
// It provides connection pooling, automatic retries, and health monitoring.
type Neo4jClient struct {
	config GraphClientConfig
	driver neo4j.DriverWithContext
}

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Neo4jClient{
		config: config,
	}, nil
}

// Connect establishes a connection to the Neo4j database.
// Uses exponential backoff for connection retries.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		config.MaxConnectionPoolSize = c.config.MaxConnectionPoolSize
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
		config.MaxTransactionRetryTime = c.config.MaxTransactionRetryTime
		// Encryption is controlled by the URI scheme (bolt:// vs bolt+s://).
	}

	var driver neo4j.DriverWithContext
	var lastErr error
	maxRetries := 5
	baseDelay := 100 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		var err error
		driver, err = neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
		if err == nil {
			err = driver.VerifyConnectivity(ctx)
			if err == nil {
				c.driver = driver
				return nil
			}
		}

		lastErr = err

		if ctx.Err() != nil {
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}

		// Backoff: baseDelay * 2^attempt, capped at the connection timeout.
		delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.config.ConnectionTimeout {
			delay = c.config.ConnectionTimeout
		}

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("failed to connect after %d attempts", maxRetries), lastErr)
}

// Close releases all resources and closes the database connection.
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}

	if err := c.driver.Close(ctx); err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed,
			"failed to close driver", err)
	}

	c.driver = nil
	return nil
}

// Health returns the current health status of the Neo4j connection.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	if c.driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}

	return types.Healthy("connected to Neo4j")
}

// Query executes a Cypher query in a read transaction.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, cypher, params, false)
}

// Write executes a Cypher statement in a write transaction.
func (c *Neo4jClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, cypher, params, true)
}

func (c *Neo4jClient) run(ctx context.Context, cypher string, params map[string]any, write bool) (QueryResult, error) {
	if c.driver == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	startTime := time.Now()

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		records, err := neoResult.Collect(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := neoResult.Consume(ctx)
		if err != nil {
			return nil, err
		}

		return convertNeo4jResult(records, summary), nil
	}

	var result any
	var err error
	if write {
		result, err = session.ExecuteWrite(ctx, work)
	} else {
		result, err = session.ExecuteRead(ctx, work)
	}

	if err != nil {
		return QueryResult{}, types.WrapError(ErrCodeGraphQueryFailed,
			"query execution failed", err)
	}

	queryResult := result.(QueryResult)
	queryResult.Summary.ExecutionTime = time.Since(startTime)

	return queryResult, nil
}

// UpsertNode merges a node on its canonical id property, overlaying the
// supplied properties. MERGE on a uniquely constrained property makes the
// write idempotent; a lost race against a concurrent creator surfaces as a
// constraint violation, in which case the merge is retried once so the
// second writer overlays the winner's node.
func (c *Neo4jClient) UpsertNode(ctx context.Context, label, id string, props map[string]any) (Node, error) {
	if c.driver == nil {
		return Node{}, types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	cypher := fmt.Sprintf(
		"MERGE (n:`%s` {id: $id}) SET n += $props RETURN labels(n) AS labels, properties(n) AS props",
		label)
	params := map[string]any{"id": id, "props": props}

	node, err := c.upsertNodeOnce(ctx, cypher, params)
	if err != nil && isConstraintViolation(err) {
		node, err = c.upsertNodeOnce(ctx, cypher, params)
	}
	if err != nil {
		if isConstraintViolation(err) {
			return Node{}, types.WrapError(ErrCodeGraphConstraintViolation,
				fmt.Sprintf("upsert of node %s violated a uniqueness constraint", id), err)
		}
		return Node{}, types.WrapError(ErrCodeGraphQueryFailed,
			fmt.Sprintf("failed to upsert node %s", id), err)
	}

	return node, nil
}

func (c *Neo4jClient) upsertNodeOnce(ctx context.Context, cypher string, params map[string]any) (Node, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		record, err := neoResult.Single(ctx)
		if err != nil {
			return nil, err
		}

		labels, _ := record.Get("labels")
		props, _ := record.Get("props")
		return nodeFromValues(labels, props), nil
	})
	if err != nil {
		return Node{}, err
	}

	return result.(Node), nil
}

// GetNode fetches a node by canonical id.
func (c *Neo4jClient) GetNode(ctx context.Context, id string) (Node, error) {
	result, err := c.Query(ctx,
		"MATCH (n {id: $id}) RETURN labels(n) AS labels, properties(n) AS props LIMIT 1",
		map[string]any{"id": id})
	if err != nil {
		return Node{}, err
	}

	if len(result.Records) == 0 {
		return Node{}, types.NewError(ErrCodeGraphNodeNotFound,
			fmt.Sprintf("node not found: %s", id))
	}

	record := result.Records[0]
	return nodeFromValues(record["labels"], record["props"]), nil
}

// GetRelationships lists all edges adjacent to a node, both directions,
// ordered by relationship type and bounded by limit.
func (c *Neo4jClient) GetRelationships(ctx context.Context, id string, limit int) ([]Relationship, error) {
	// Anchor existence check first so an absent node is NotFound, not an
	// empty listing.
	if _, err := c.GetNode(ctx, id); err != nil {
		return nil, err
	}

	cypher := `
		MATCH (n {id: $id})-[r]-(m)
		RETURN type(r) AS rel_type,
		       CASE WHEN startNode(r) = n THEN 'outgoing' ELSE 'incoming' END AS direction,
		       properties(r) AS rel_props,
		       labels(m) AS neighbor_labels,
		       properties(m) AS neighbor_props
		ORDER BY rel_type
		LIMIT $limit`

	result, err := c.Query(ctx, cypher, map[string]any{"id": id, "limit": limit})
	if err != nil {
		return nil, err
	}

	rels := make([]Relationship, 0, len(result.Records))
	for _, record := range result.Records {
		relType, _ := record["rel_type"].(string)
		direction, _ := record["direction"].(string)
		rels = append(rels, Relationship{
			Type:      relType,
			Direction: Direction(direction),
			Props:     propsFromValue(record["rel_props"]),
			Neighbor:  nodeFromValues(record["neighbor_labels"], record["neighbor_props"]),
		})
	}

	return rels, nil
}

// UpsertRelationship merges a single directed edge between two existing
// nodes. Endpoints are checked inside the write transaction so the edge and
// the check see the same snapshot.
func (c *Neo4jClient) UpsertRelationship(ctx context.Context, fromID, relType, toID string, props map[string]any) error {
	if c.driver == nil {
		return types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}
	if props == nil {
		props = map[string]any{}
	}

	mergeCypher := fmt.Sprintf(
		"MATCH (a {id: $from}) MATCH (b {id: $to}) MERGE (a)-[r:`%s`]->(b) SET r += $props RETURN type(r)",
		relType)

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		check, err := tx.Run(ctx,
			"OPTIONAL MATCH (a {id: $from}) OPTIONAL MATCH (b {id: $to}) RETURN a IS NOT NULL AS from_exists, b IS NOT NULL AS to_exists",
			map[string]any{"from": fromID, "to": toID})
		if err != nil {
			return nil, err
		}
		record, err := check.Single(ctx)
		if err != nil {
			return nil, err
		}
		if exists, _ := record.Get("from_exists"); exists != true {
			return nil, types.NewError(ErrCodeGraphEndpointNotFound,
				fmt.Sprintf("relationship endpoint not found: %s", fromID))
		}
		if exists, _ := record.Get("to_exists"); exists != true {
			return nil, types.NewError(ErrCodeGraphEndpointNotFound,
				fmt.Sprintf("relationship endpoint not found: %s", toID))
		}

		merge, err := tx.Run(ctx, mergeCypher,
			map[string]any{"from": fromID, "to": toID, "props": props})
		if err != nil {
			return nil, err
		}
		_, err = merge.Single(ctx)
		return nil, err
	})

	if err != nil {
		if types.IsCode(err, ErrCodeGraphEndpointNotFound) {
			return err
		}
		return types.WrapError(ErrCodeGraphRelationshipFailed,
			fmt.Sprintf("failed to upsert relationship %s-[%s]->%s", fromID, relType, toID), err)
	}

	return nil
}

// FullTextSearch queries a named full-text index via the store's native
// relevance ranking.
func (c *Neo4jClient) FullTextSearch(ctx context.Context, index, query string, limit int) ([]SearchHit, error) {
	cypher := `
		CALL db.index.fulltext.queryNodes($index, $query)
		YIELD node, score
		RETURN labels(node) AS labels, properties(node) AS props, score
		ORDER BY score DESC
		LIMIT $limit`

	result, err := c.Query(ctx, cypher,
		map[string]any{"index": index, "query": query, "limit": limit})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(result.Records))
	for _, record := range result.Records {
		score, _ := record["score"].(float64)
		hits = append(hits, SearchHit{
			Node:  nodeFromValues(record["labels"], record["props"]),
			Score: score,
		})
	}

	return hits, nil
}

// MatchByProperty finds nodes of a label by case-insensitive string property
// match, exact or prefix.
func (c *Neo4jClient) MatchByProperty(ctx context.Context, label, property, value string, prefix bool) ([]Node, error) {
	predicate := "toLower(toString(n.`%s`)) = toLower($value)"
	if prefix {
		predicate = "toLower(toString(n.`%s`)) STARTS WITH toLower($value)"
	}

	cypher := fmt.Sprintf(
		"MATCH (n:`%s`) WHERE n.`%s` IS NOT NULL AND "+predicate+
			" RETURN labels(n) AS labels, properties(n) AS props ORDER BY n.`%s`",
		label, property, property, property)

	result, err := c.Query(ctx, cypher, map[string]any{"value": value})
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(result.Records))
	for _, record := range result.Records {
		nodes = append(nodes, nodeFromValues(record["labels"], record["props"]))
	}

	return nodes, nil
}

// isConstraintViolation reports whether err carries the Neo4j uniqueness
// constraint status code.
func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return neoErr.Code == neo4jConstraintViolation
	}
	return false
}

// nodeFromValues builds a Node from the labels(n) and properties(n) values
// of a query record.
func nodeFromValues(labelsVal, propsVal any) Node {
	node := Node{
		Labels: []string{},
		Props:  propsFromValue(propsVal),
	}

	if labels, ok := labelsVal.([]any); ok {
		for _, l := range labels {
			if s, ok := l.(string); ok {
				node.Labels = append(node.Labels, s)
			}
		}
	}

	if id, ok := node.Props["id"].(string); ok {
		node.ID = id
	}

	return node
}

func propsFromValue(v any) map[string]any {
	if props, ok := v.(map[string]any); ok {
		return props
	}
	return map[string]any{}
}

// convertNeo4jResult converts Neo4j records and summary to our QueryResult format.
func convertNeo4jResult(records []*neo4j.Record, summary neo4j.ResultSummary) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: []string{},
	}

	if len(records) > 0 {
		result.Columns = records[0].Keys
	}

	for _, record := range records {
		recordMap := make(map[string]any)
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		result.Records = append(result.Records, recordMap)
	}

	if summary != nil && summary.Counters() != nil {
		counters := summary.Counters()
		result.Summary = QuerySummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
		}
	}

	return result
}
