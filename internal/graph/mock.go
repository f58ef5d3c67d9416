package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ravou/Neurograph/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Args      []interface{}
	Timestamp time.Time
}

// mockIndex is a registered full-text index definition.
type mockIndex struct {
	Label      string
	Properties []string
}

// mockEdge is a stored relationship.
type mockEdge struct {
	FromID string
	ToID   string
	Type   string
	Props  map[string]any
}

// MockGraphClient is an in-memory implementation of GraphClient for testing.
// Upserts, relationship merges, and property matches behave like the real
// store; full-text search is approximated by term overlap against the
// registered index properties. All method calls are recorded for
// verification.
type MockGraphClient struct {
	mu sync.RWMutex

	// State
	connected    bool
	healthStatus types.HealthStatus
	nodes        map[string]Node
	edges        []mockEdge
	indexes      map[string]mockIndex
	calls        []MockCall

	// Configurable responses
	queryResults []QueryResult
	errs         map[string]error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		connected:    false,
		healthStatus: types.Healthy("mock graph client"),
		nodes:        make(map[string]Node),
		edges:        make([]mockEdge, 0),
		indexes:      make(map[string]mockIndex),
		calls:        make([]MockCall, 0),
		queryResults: make([]QueryResult, 0),
		errs:         make(map[string]error),
	}
}

func (m *MockGraphClient) record(method string, args ...interface{}) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Connect")
	if err := m.errs["Connect"]; err != nil {
		return err
	}

	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close")
	if err := m.errs["Close"]; err != nil {
		return err
	}

	m.connected = false
	return nil
}

// Health records the call and returns the configured health status.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health")
	if !m.connected {
		return types.Unhealthy("not connected")
	}

	return m.healthStatus
}

// Query records the call and returns the configured query results (FIFO).
func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Query", cypher, params)
	if err := m.checkConnected(); err != nil {
		return QueryResult{}, err
	}
	if err := m.errs["Query"]; err != nil {
		return QueryResult{}, err
	}

	if len(m.queryResults) > 0 {
		result := m.queryResults[0]
		m.queryResults = m.queryResults[1:]
		return result, nil
	}

	return QueryResult{
		Records: []map[string]any{},
		Columns: []string{},
	}, nil
}

// Write records the call and returns the configured query results (FIFO).
// Schema declaration statements are accepted and ignored.
func (m *MockGraphClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Write", cypher, params)
	if err := m.checkConnected(); err != nil {
		return QueryResult{}, err
	}
	if err := m.errs["Write"]; err != nil {
		return QueryResult{}, err
	}

	if len(m.queryResults) > 0 {
		result := m.queryResults[0]
		m.queryResults = m.queryResults[1:]
		return result, nil
	}

	return QueryResult{
		Records: []map[string]any{},
		Columns: []string{},
	}, nil
}

// UpsertNode merges a node by id, overlaying the supplied properties.
func (m *MockGraphClient) UpsertNode(ctx context.Context, label, id string, props map[string]any) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("UpsertNode", label, id, props)
	if err := m.checkConnected(); err != nil {
		return Node{}, err
	}
	if err := m.errs["UpsertNode"]; err != nil {
		return Node{}, err
	}

	node, exists := m.nodes[id]
	if !exists {
		node = Node{
			ID:     id,
			Labels: []string{label},
			Props:  map[string]any{"id": id},
		}
	}
	for k, v := range props {
		if v == nil {
			continue
		}
		node.Props[k] = v
	}
	node.Props["id"] = id
	m.nodes[id] = node

	return copyNode(node), nil
}

// GetNode fetches a node by id.
func (m *MockGraphClient) GetNode(ctx context.Context, id string) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("GetNode", id)
	if err := m.checkConnected(); err != nil {
		return Node{}, err
	}
	if err := m.errs["GetNode"]; err != nil {
		return Node{}, err
	}

	node, exists := m.nodes[id]
	if !exists {
		return Node{}, types.NewError(ErrCodeGraphNodeNotFound,
			fmt.Sprintf("node not found: %s", id))
	}

	return copyNode(node), nil
}

// GetRelationships lists edges adjacent to a node, ordered by type.
func (m *MockGraphClient) GetRelationships(ctx context.Context, id string, limit int) ([]Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("GetRelationships", id, limit)
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	if err := m.errs["GetRelationships"]; err != nil {
		return nil, err
	}

	if _, exists := m.nodes[id]; !exists {
		return nil, types.NewError(ErrCodeGraphNodeNotFound,
			fmt.Sprintf("node not found: %s", id))
	}

	rels := make([]Relationship, 0)
	for _, edge := range m.edges {
		var direction Direction
		var neighborID string
		switch {
		case edge.FromID == id:
			direction = DirectionOutgoing
			neighborID = edge.ToID
		case edge.ToID == id:
			direction = DirectionIncoming
			neighborID = edge.FromID
		default:
			continue
		}

		rels = append(rels, Relationship{
			Type:      edge.Type,
			Direction: direction,
			Props:     copyProps(edge.Props),
			Neighbor:  copyNode(m.nodes[neighborID]),
		})
	}

	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].Type < rels[j].Type
	})
	if limit > 0 && len(rels) > limit {
		rels = rels[:limit]
	}

	return rels, nil
}

// UpsertRelationship merges a single directed edge between existing nodes.
func (m *MockGraphClient) UpsertRelationship(ctx context.Context, fromID, relType, toID string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("UpsertRelationship", fromID, relType, toID, props)
	if err := m.checkConnected(); err != nil {
		return err
	}
	if err := m.errs["UpsertRelationship"]; err != nil {
		return err
	}

	if _, exists := m.nodes[fromID]; !exists {
		return types.NewError(ErrCodeGraphEndpointNotFound,
			fmt.Sprintf("relationship endpoint not found: %s", fromID))
	}
	if _, exists := m.nodes[toID]; !exists {
		return types.NewError(ErrCodeGraphEndpointNotFound,
			fmt.Sprintf("relationship endpoint not found: %s", toID))
	}

	for i, edge := range m.edges {
		if edge.FromID == fromID && edge.ToID == toID && edge.Type == relType {
			for k, v := range props {
				if v == nil {
					continue
				}
				m.edges[i].Props[k] = v
			}
			return nil
		}
	}

	m.edges = append(m.edges, mockEdge{
		FromID: fromID,
		ToID:   toID,
		Type:   relType,
		Props:  copyProps(props),
	})

	return nil
}

// FullTextSearch scores registered-index nodes by the fraction of query
// terms contained in the indexed properties, descending, ties broken by id.
func (m *MockGraphClient) FullTextSearch(ctx context.Context, index, query string, limit int) ([]SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("FullTextSearch", index, query, limit)
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	if err := m.errs["FullTextSearch"]; err != nil {
		return nil, err
	}

	idx, exists := m.indexes[index]
	if !exists {
		return nil, types.NewError(ErrCodeGraphInvalidQuery,
			fmt.Sprintf("no such full-text index: %s", index))
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []SearchHit{}, nil
	}

	hits := make([]SearchHit, 0)
	for _, node := range m.nodes {
		if !hasLabel(node, idx.Label) {
			continue
		}

		var text strings.Builder
		for _, prop := range idx.Properties {
			if s, ok := node.Props[prop].(string); ok {
				text.WriteString(strings.ToLower(s))
				text.WriteString(" ")
			}
		}

		matched := 0
		for _, term := range terms {
			if strings.Contains(text.String(), term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		hits = append(hits, SearchHit{
			Node:  copyNode(node),
			Score: float64(matched) / float64(len(terms)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Node.ID < hits[j].Node.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// MatchByProperty finds nodes of a label by case-insensitive string match.
func (m *MockGraphClient) MatchByProperty(ctx context.Context, label, property, value string, prefix bool) ([]Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("MatchByProperty", label, property, value, prefix)
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	if err := m.errs["MatchByProperty"]; err != nil {
		return nil, err
	}

	want := strings.ToLower(value)
	nodes := make([]Node, 0)
	for _, node := range m.nodes {
		if !hasLabel(node, label) {
			continue
		}

		s, ok := node.Props[property].(string)
		if !ok {
			continue
		}
		got := strings.ToLower(s)

		match := got == want
		if prefix {
			match = strings.HasPrefix(got, want)
		}
		if match {
			nodes = append(nodes, copyNode(node))
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		si, _ := nodes[i].Props[property].(string)
		sj, _ := nodes[j].Props[property].(string)
		return si < sj
	})

	return nodes, nil
}

// RegisterFullTextIndex declares an index FullTextSearch will serve.
func (m *MockGraphClient) RegisterFullTextIndex(name, label string, properties []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[name] = mockIndex{Label: label, Properties: properties}
}

// SetQueryResults configures what Query()/Write() should return (FIFO queue).
func (m *MockGraphClient) SetQueryResults(results []QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = results
}

// AddQueryResult adds a single query result to the queue.
func (m *MockGraphClient) AddQueryResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = append(m.queryResults, result)
}

// SetHealthStatus configures what Health() should return.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetError configures the named method to return err. Pass nil to clear.
func (m *MockGraphClient) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// GetCalls returns all recorded method calls.
func (m *MockGraphClient) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// GetCallsByMethod returns all calls to a specific method.
func (m *MockGraphClient) GetCallsByMethod(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, 0)
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns the total number of method calls.
func (m *MockGraphClient) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// GetNodes returns a copy of all stored nodes keyed by id.
func (m *MockGraphClient) GetNodes() map[string]Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make(map[string]Node, len(m.nodes))
	for k, v := range m.nodes {
		nodes[k] = copyNode(v)
	}
	return nodes
}

// EdgeCount returns the number of stored edges of a type between two nodes.
func (m *MockGraphClient) EdgeCount(fromID, relType, toID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, edge := range m.edges {
		if edge.FromID == fromID && edge.ToID == toID && edge.Type == relType {
			count++
		}
	}
	return count
}

// IsConnected returns whether the mock is in connected state.
func (m *MockGraphClient) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Reset clears all state and recorded calls.
func (m *MockGraphClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	m.healthStatus = types.Healthy("mock graph client")
	m.nodes = make(map[string]Node)
	m.edges = make([]mockEdge, 0)
	m.indexes = make(map[string]mockIndex)
	m.calls = make([]MockCall, 0)
	m.queryResults = make([]QueryResult, 0)
	m.errs = make(map[string]error)
}

func (m *MockGraphClient) checkConnected() error {
	if !m.connected {
		return types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}
	return nil
}

func hasLabel(node Node, label string) bool {
	for _, l := range node.Labels {
		if l == label {
			return true
		}
	}
	return false
}

func copyNode(node Node) Node {
	return Node{
		ID:     node.ID,
		Labels: append([]string{}, node.Labels...),
		Props:  copyProps(node.Props),
	}
}

func copyProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
