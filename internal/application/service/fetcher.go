package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ExpandMode selects how per-document fetch failures are handled
type ExpandMode int

const (
	// ExpandTolerant drops documents that fail to load
	ExpandTolerant ExpandMode = iota
	// ExpandStrict aborts on the first failure
	ExpandStrict
)

// DefaultConcurrency bounds parallel document fetches when none is configured
const DefaultConcurrency = 8

// Fetcher lists document names and expands them into full documents
type Fetcher struct {
	client      port.ERPClient
	concurrency int
	logger      Logger
}

// NewFetcher creates a new Fetcher
func NewFetcher(client port.ERPClient, concurrency int, logger Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Fetcher{
		client:      client,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ListNames returns the names of the documents matching query
func (f *Fetcher) ListNames(ctx context.Context, doctype string, query port.ListQuery) ([]string, error) {
	query.Fields = []string{"name"}
	rows, err := f.client.GetList(ctx, doctype, query)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		var ref struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(row, &ref); err != nil {
			return nil, fmt.Errorf("decode %s name: %w", doctype, err)
		}
		names = append(names, ref.Name)
	}
	return names, nil
}

// ExpandDocuments fetches every named document with bounded concurrency.
// Results keep the order of names.
func ExpandDocuments[T any](ctx context.Context, f *Fetcher, doctype string, names []string, mode ExpandMode) ([]T, error) {
	if len(names) == 0 {
		return []T{}, nil
	}

	results := make([]*T, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := fetchDocument[T](gctx, f.client, doctype, name)
			if err == nil {
				results[i] = doc
				return nil
			}
			if mode == ExpandStrict {
				return err
			}

			f.logger.Warn("Dropping document that failed to load",
				"doctype", doctype,
				"name", name,
				"error", err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]T, 0, len(names))
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}

	if dropped := len(names) - len(docs); dropped > 0 {
		f.logger.Info("Expanded documents with failures",
			"doctype", doctype,
			"requested", len(names),
			"dropped", dropped)
	}
	return docs, nil
}

// fetchDocument loads and decodes a single document
func fetchDocument[T any](ctx context.Context, client port.ERPClient, doctype, name string) (*T, error) {
	raw, err := client.Get(ctx, doctype, name)
	if err != nil {
		return nil, err
	}
	return decodeDocument[T](raw)
}

// decodeDocument decodes a remote document, applying its field mapping
func decodeDocument[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, port.ErrDocumentNotFound
	}

	doc := new(T)
	if decoder, ok := any(doc).(entity.RemoteDecoder); ok {
		if err := decoder.DecodeRemote(raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// decodeDocuments decodes a list response
func decodeDocuments[T any](rows []json.RawMessage) ([]T, error) {
	docs := make([]T, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeDocument[T](row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// encodeDocument renders a document in the ERP server's field names
func encodeDocument(doc interface{}) (map[string]interface{}, error) {
	if encoder, ok := doc.(entity.RemoteEncoder); ok {
		return encoder.EncodeRemote(), nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}
