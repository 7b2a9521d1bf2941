package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceMoodEntry     ResourceType = "mood_entry"
	ResourceWeeklySummary ResourceType = "weekly_summary"
	ResourceReport        ResourceType = "report"
)

// Record represents an audit log entry
type Record struct {
	OperationType OperationType
	ResourceType  ResourceType
	ResourceID    string
	Timestamp     time.Time
	IPAddress     string
	UserAgent     string
}

// Logger handles audit logging
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Log creates an audit log entry
func (l *Logger) Log(ctx context.Context, entry Record) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Log to structured logger first
	l.logger.Info("Audit log entry",
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	query := `
		INSERT INTO audit_logs (
			operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := l.db.Exec(ctx, query,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
	)

	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return err
	}

	return nil
}

// LogCreate logs a CREATE operation
func (l *Logger) LogCreate(ctx context.Context, resourceType ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Record{
		OperationType: OperationCreate,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogUpdate logs an UPDATE operation
func (l *Logger) LogUpdate(ctx context.Context, resourceType ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Record{
		OperationType: OperationUpdate,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogDelete logs a DELETE operation
func (l *Logger) LogDelete(ctx context.Context, resourceType ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, Record{
		OperationType: OperationDelete,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// Recent retrieves the most recent audit log entries
func (l *Logger) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT operation_type, resource_type, resource_id,
		       timestamp, ip_address, user_agent
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := l.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.OperationType,
			&rec.ResourceType,
			&rec.ResourceID,
			&rec.Timestamp,
			&rec.IPAddress,
			&rec.UserAgent,
		)
		if err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
