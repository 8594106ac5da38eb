// Package repository implements the SQLite repositories of the gateway.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"go.uber.org/zap"
)

const defaultRequestLogLimit = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// RequestLogRepository implements port.RequestLogRepository
type RequestLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestLogRepository creates a new request log repository
func NewRequestLogRepository(db *sql.DB, logger *zap.Logger) *RequestLogRepository {
	return &RequestLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a request log row
func (r *RequestLogRepository) Create(ctx context.Context, log *entity.RequestLog) error {
	query := `
		INSERT INTO request_logs (
			request_id, method, path, doctype, status_code,
			latency_ms, client_ip, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	log.CreatedAt = log.CreatedAt.UTC()

	result, err := r.db.ExecContext(ctx, query,
		log.RequestID,
		log.Method,
		log.Path,
		log.DocType,
		log.StatusCode,
		log.LatencyMS,
		log.ClientIP,
		log.Error,
		log.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request log", zap.String("request_id", log.RequestID), zap.Error(err))
		return fmt.Errorf("failed to create request log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// List returns request logs matching filter, newest first
func (r *RequestLogRepository) List(ctx context.Context, filter port.RequestLogFilter) ([]*entity.RequestLog, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Method != "" {
		conditions = append(conditions, "method = ?")
		args = append(args, strings.ToUpper(filter.Method))
	}
	if filter.Path != "" {
		conditions = append(conditions, `path LIKE ? ESCAPE '\'`)
		args = append(args, likeEscaper.Replace(filter.Path)+"%")
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := `
		SELECT id, request_id, method, path, doctype, status_code,
			latency_ms, client_ip, error, created_at
		FROM request_logs
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRequestLogLimit
	}
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list request logs", zap.Error(err))
		return nil, fmt.Errorf("failed to list request logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*entity.RequestLog, 0)
	for rows.Next() {
		var log entity.RequestLog
		err := rows.Scan(
			&log.ID,
			&log.RequestID,
			&log.Method,
			&log.Path,
			&log.DocType,
			&log.StatusCode,
			&log.LatencyMS,
			&log.ClientIP,
			&log.Error,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// DeleteBefore removes request logs created before cutoff
func (r *RequestLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM request_logs WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		r.logger.Error("Failed to prune request logs", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0, fmt.Errorf("failed to prune request logs: %w", err)
	}
	return result.RowsAffected()
}

// Verify interface compliance
var _ port.RequestLogRepository = (*RequestLogRepository)(nil)
