package port

import (
	"context"
	"time"
)

// ExportFile describes a stored report export
type ExportFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// ExportStorage stores generated report files
type ExportStorage interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]ExportFile, error)
	Delete(ctx context.Context, name string) error
}
