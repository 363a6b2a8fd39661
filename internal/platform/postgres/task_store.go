package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/store"
	"github.com/PengWorks1114/vocabularydb/internal/task"
)

// TaskStore implements the task.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a PostgreSQL implementation of the task.TaskStore
// interface. If logger is nil, the process default logger is used.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

var _ task.TaskStore = (*TaskStore)(nil)

// WithTx implements task.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &TaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// SaveTask implements task.TaskStore.SaveTask
func (s *TaskStore) SaveTask(ctx context.Context, t task.Task) error {
	l := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		INSERT INTO tasks (id, type, payload, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '', $5, $5)
	`
	_, err := s.db.ExecContext(ctx, query, t.ID(), t.Type(), t.Payload(), t.Status(), now)
	if err != nil {
		l.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()))
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// UpdateTaskStatus implements task.TaskStore.UpdateTaskStatus
func (s *TaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	l := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, taskID, status, errorMsg, time.Now().UTC())
	if err != nil {
		l.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check task update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}

	return nil
}

// ListByStatus implements task.TaskStore.ListByStatus
func (s *TaskStore) ListByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Snapshot, error) {
	l := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, created_at, updated_at
		FROM tasks
		WHERE status = $1
	`
	args := []interface{}{status}
	if olderThan > 0 {
		query += " AND updated_at < $2"
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error("failed to list tasks by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []task.Snapshot
	for rows.Next() {
		var snap task.Snapshot
		if err := rows.Scan(
			&snap.ID,
			&snap.Type,
			&snap.Payload,
			&snap.Status,
			&snap.CreatedAt,
			&snap.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return snapshots, nil
}
