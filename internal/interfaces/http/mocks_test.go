package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

type fakeResource[T any] struct {
	doctype    string
	listFunc   func(ctx context.Context, params service.ListParams) ([]T, error)
	getFunc    func(ctx context.Context, name string) (*T, error)
	createFunc func(ctx context.Context, doc *T) (*T, error)
	updateFunc func(ctx context.Context, name string, doc *T) (*T, error)
	deleteFunc func(ctx context.Context, name string) error
	calls      int
}

func (f *fakeResource[T]) DocType() string { return f.doctype }

func (f *fakeResource[T]) List(ctx context.Context, params service.ListParams) ([]T, error) {
	f.calls++
	if f.listFunc != nil {
		return f.listFunc(ctx, params)
	}
	return []T{}, nil
}

func (f *fakeResource[T]) Get(ctx context.Context, name string) (*T, error) {
	f.calls++
	if f.getFunc != nil {
		return f.getFunc(ctx, name)
	}
	return new(T), nil
}

func (f *fakeResource[T]) Create(ctx context.Context, doc *T) (*T, error) {
	f.calls++
	if f.createFunc != nil {
		return f.createFunc(ctx, doc)
	}
	return doc, nil
}

func (f *fakeResource[T]) Update(ctx context.Context, name string, doc *T) (*T, error) {
	f.calls++
	if f.updateFunc != nil {
		return f.updateFunc(ctx, name, doc)
	}
	return doc, nil
}

func (f *fakeResource[T]) Delete(ctx context.Context, name string) error {
	f.calls++
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, name)
	}
	return nil
}

type fakeReportService struct {
	params       service.ReportParams
	incomeFunc   func(ctx context.Context, params service.ReportParams) (*entity.IncomeStatement, error)
	cashFlowFunc func(ctx context.Context, params service.ReportParams) (*entity.CashFlowStatement, error)
	balanceFunc  func(ctx context.Context, params service.ReportParams) (*entity.BalanceSheet, error)
}

func (f *fakeReportService) IncomeStatement(ctx context.Context, params service.ReportParams) (*entity.IncomeStatement, error) {
	f.params = params
	if f.incomeFunc != nil {
		return f.incomeFunc(ctx, params)
	}
	return &entity.IncomeStatement{Company: params.Company, FromDate: params.FromDate, ToDate: params.ToDate}, nil
}

func (f *fakeReportService) CashFlow(ctx context.Context, params service.ReportParams) (*entity.CashFlowStatement, error) {
	f.params = params
	if f.cashFlowFunc != nil {
		return f.cashFlowFunc(ctx, params)
	}
	return &entity.CashFlowStatement{Company: params.Company, FromDate: params.FromDate, ToDate: params.ToDate}, nil
}

func (f *fakeReportService) BalanceSheet(ctx context.Context, params service.ReportParams) (*entity.BalanceSheet, error) {
	f.params = params
	if f.balanceFunc != nil {
		return f.balanceFunc(ctx, params)
	}
	return &entity.BalanceSheet{Company: params.Company, ToDate: "2024-06-30"}, nil
}

type fakePOSService struct {
	createFunc func(ctx context.Context, sale *entity.SalesInvoice) (*entity.SalesInvoice, error)
	listParams service.ListParams
}

func (f *fakePOSService) CreateSale(ctx context.Context, sale *entity.SalesInvoice) (*entity.SalesInvoice, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, sale)
	}
	sale.Name = "POS-20240101-ABCDEF12"
	sale.IsPOS = 1
	return sale, nil
}

func (f *fakePOSService) ListSales(ctx context.Context, params service.ListParams) ([]entity.SalesInvoice, error) {
	f.listParams = params
	return []entity.SalesInvoice{{Name: "POS-1", Customer: "Walk-in Customer"}}, nil
}

type fakeRequestLogRepo struct {
	mu      sync.Mutex
	created []*entity.RequestLog
	filter  port.RequestLogFilter
}

func (f *fakeRequestLogRepo) Create(ctx context.Context, log *entity.RequestLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.created) + 1)
	f.created = append(f.created, log)
	return nil
}

func (f *fakeRequestLogRepo) List(ctx context.Context, filter port.RequestLogFilter) ([]*entity.RequestLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	return f.created, nil
}

func (f *fakeRequestLogRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type memoryExportStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryExportStorage() *memoryExportStorage {
	return &memoryExportStorage{files: make(map[string][]byte)}
}

func (m *memoryExportStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
	return "/exports/" + name, nil
}

func (m *memoryExportStorage) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("export %s: %w", name, port.ErrDocumentNotFound)
	}
	return content, nil
}

func (m *memoryExportStorage) List(ctx context.Context) ([]port.ExportFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make([]port.ExportFile, 0, len(m.files))
	for name, content := range m.files {
		files = append(files, port.ExportFile{Name: name, Size: int64(len(content))})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (m *memoryExportStorage) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func newTestServer(services Services, tokens ...string) *gin.Engine {
	server := NewServer(ServerConfig{Mode: gin.TestMode, APITokens: tokens}, services, zap.NewNop())
	return server.Router()
}

func perform(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
