package graph

import (
	"github.com/Ravou/Neurograph/internal/types"
)

// Error codes for graph operations.
const (
	ErrCodeGraphConnectionFailed    types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionClosed    types.ErrorCode = "GRAPH_CONNECTION_CLOSED"
	ErrCodeGraphInvalidConfig       types.ErrorCode = "GRAPH_INVALID_CONFIG"
	ErrCodeGraphQueryFailed         types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeGraphInvalidQuery        types.ErrorCode = "GRAPH_INVALID_QUERY"
	ErrCodeGraphResultParsing       types.ErrorCode = "GRAPH_RESULT_PARSING"
	ErrCodeGraphNodeNotFound        types.ErrorCode = "GRAPH_NODE_NOT_FOUND"
	ErrCodeGraphConstraintViolation types.ErrorCode = "GRAPH_CONSTRAINT_VIOLATION"
	ErrCodeGraphRelationshipFailed  types.ErrorCode = "GRAPH_RELATIONSHIP_FAILED"
	ErrCodeGraphEndpointNotFound    types.ErrorCode = "GRAPH_ENDPOINT_NOT_FOUND"
)
