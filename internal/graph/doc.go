// Package graph provides the graph database client abstraction for the
// incident operations graph.
//
// The package defines a GraphClient interface implemented by Neo4jClient for
// production use and MockGraphClient for unit testing. Clients expose typed
// operations (upsert node, upsert relationship, node lookup, one-hop
// relationship expansion, full-text and property search) plus a raw Query
// escape hatch used for schema declarations.
//
// # Node identity
//
// Every node carries a canonical graph-wide identifier in its "id" property,
// of the form "<label>:<key>" (e.g. "incident:INC-001"). Upserts MERGE on
// that property; relationship writes MATCH endpoints by it and fail when an
// endpoint is absent.
//
// # Upsert semantics
//
// UpsertNode is merge, set-on-create: the first write fixes the on-create
// properties, every write merges the supplied properties with last-writer-wins
// per field. Callers must strip nil values before the call; the client never
// erases an existing property with a null.
//
// # Connection management
//
// The Neo4j client pools connections with configurable limits and retries the
// initial connection with exponential backoff. Encryption is controlled by the
// URI scheme (bolt://, bolt+s://, neo4j://, neo4j+s://).
//
// # Error handling
//
// All errors are wrapped in types.GraphError with specific error codes:
//
//   - ErrCodeGraphConnectionFailed: connection establishment failed
//   - ErrCodeGraphConnectionClosed: operation on a closed connection
//   - ErrCodeGraphQueryFailed: query execution failed
//   - ErrCodeGraphNodeNotFound: node lookup missed
//   - ErrCodeGraphConstraintViolation: the store rejected a duplicate key
//
// # Thread safety
//
// All implementations must be safe for concurrent use. The Neo4j driver
// handles pooling internally; the mock guards its state with a mutex.
package graph
