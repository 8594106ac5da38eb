package port

import (
	"context"
	"time"

	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// RequestLogFilter narrows a request log listing
type RequestLogFilter struct {
	Method string
	Path   string
	Since  *time.Time
	Limit  int
	Offset int
}

// RequestLogRepository defines persistence operations for RequestLog
type RequestLogRepository interface {
	Create(ctx context.Context, log *entity.RequestLog) error
	List(ctx context.Context, filter RequestLogFilter) ([]*entity.RequestLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
