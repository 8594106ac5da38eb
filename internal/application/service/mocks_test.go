package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/garyjia/erp-gateway/internal/application/port"
)

type mockERPClient struct {
	getListFunc func(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error)
	getFunc     func(ctx context.Context, doctype, name string) (json.RawMessage, error)
	insertFunc  func(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error)
	saveFunc    func(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error)
	deleteFunc  func(ctx context.Context, doctype, name string) error

	mu      sync.Mutex
	queries map[string]port.ListQuery
	calls   int
}

func (m *mockERPClient) record(doctype string, query *port.ListQuery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if query != nil {
		if m.queries == nil {
			m.queries = make(map[string]port.ListQuery)
		}
		m.queries[doctype] = *query
	}
}

func (m *mockERPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockERPClient) query(doctype string) port.ListQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[doctype]
}

func (m *mockERPClient) GetList(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
	m.record(doctype, &query)
	if m.getListFunc != nil {
		return m.getListFunc(ctx, doctype, query)
	}
	return []json.RawMessage{}, nil
}

func (m *mockERPClient) Get(ctx context.Context, doctype, name string) (json.RawMessage, error) {
	m.record(doctype, nil)
	if m.getFunc != nil {
		return m.getFunc(ctx, doctype, name)
	}
	return nil, port.ErrDocumentNotFound
}

func (m *mockERPClient) Insert(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
	m.record(doctype, nil)
	if m.insertFunc != nil {
		return m.insertFunc(ctx, doctype, doc)
	}
	return json.Marshal(doc)
}

func (m *mockERPClient) Save(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
	m.record(doctype, nil)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, doctype, name, doc)
	}
	return json.Marshal(doc)
}

func (m *mockERPClient) Delete(ctx context.Context, doctype, name string) error {
	m.record(doctype, nil)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, doctype, name)
	}
	return nil
}

type mockDocumentDB struct {
	getDocListFunc func(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error)
	getDocFunc     func(ctx context.Context, doctype, name string) (json.RawMessage, error)
	createDocFunc  func(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error)
	updateDocFunc  func(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error)
	deleteDocFunc  func(ctx context.Context, doctype, name string) error

	calls int
}

func (m *mockDocumentDB) GetDocList(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
	m.calls++
	if m.getDocListFunc != nil {
		return m.getDocListFunc(ctx, doctype, query)
	}
	return []json.RawMessage{}, nil
}

func (m *mockDocumentDB) GetDoc(ctx context.Context, doctype, name string) (json.RawMessage, error) {
	m.calls++
	if m.getDocFunc != nil {
		return m.getDocFunc(ctx, doctype, name)
	}
	return nil, port.ErrDocumentNotFound
}

func (m *mockDocumentDB) CreateDoc(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
	m.calls++
	if m.createDocFunc != nil {
		return m.createDocFunc(ctx, doctype, doc)
	}
	return json.Marshal(doc)
}

func (m *mockDocumentDB) UpdateDoc(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
	m.calls++
	if m.updateDocFunc != nil {
		return m.updateDocFunc(ctx, doctype, name, doc)
	}
	return json.Marshal(doc)
}

func (m *mockDocumentDB) DeleteDoc(ctx context.Context, doctype, name string) error {
	m.calls++
	if m.deleteDocFunc != nil {
		return m.deleteDocFunc(ctx, doctype, name)
	}
	return nil
}

type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, fmt.Sprint(append([]interface{}{msg}, keysAndValues...)...))
}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

type mockExportStorage struct {
	saved map[string][]byte
}

func (m *mockExportStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = content
	return "/exports/" + name, nil
}

func (m *mockExportStorage) Read(ctx context.Context, name string) ([]byte, error) {
	content, ok := m.saved[name]
	if !ok {
		return nil, fmt.Errorf("export %s not found", name)
	}
	return content, nil
}

func (m *mockExportStorage) List(ctx context.Context) ([]port.ExportFile, error) {
	files := make([]port.ExportFile, 0, len(m.saved))
	for name, content := range m.saved {
		files = append(files, port.ExportFile{Name: name, Size: int64(len(content))})
	}
	return files, nil
}

func (m *mockExportStorage) Delete(ctx context.Context, name string) error {
	delete(m.saved, name)
	return nil
}

// rawDocs converts JSON literals into list rows
func rawDocs(docs ...string) []json.RawMessage {
	rows := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, json.RawMessage(doc))
	}
	return rows
}
