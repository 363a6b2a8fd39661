// Package task runs background jobs on a worker pool backed by a persistent
// queue, so work like example-sentence generation survives restarts and never
// blocks HTTP request handling.
package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeExampleGeneration identifies tasks that generate an example
// sentence for a single word.
const TaskTypeExampleGeneration = "example_generation"

// Task is a unit of background work.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Payload returns the task data as JSON bytes.
	Payload() []byte

	// Status returns the current task status.
	Status() TaskStatus

	// Execute runs the task logic.
	Execute(ctx context.Context) error
}

// Factory rebuilds an executable task from its persisted form. The runner
// uses factories to turn queue rows back into runnable tasks on recovery.
type Factory func(id uuid.UUID, payload []byte) (Task, error)

// Snapshot is the persisted form of a task: enough to rehydrate it through a
// Factory, but not executable by itself.
type Snapshot struct {
	ID        uuid.UUID
	Type      string
	Payload   []byte
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskStore persists the task queue.
type TaskStore interface {
	// SaveTask persists a new task in pending state.
	SaveTask(ctx context.Context, t Task) error

	// UpdateTaskStatus records a task's state transition. The errorMsg is
	// stored for failed tasks and may be empty otherwise.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// ListByStatus retrieves task snapshots in the given status, oldest
	// first. A non-zero olderThan restricts results to tasks whose last
	// update is at least that old.
	ListByStatus(ctx context.Context, status TaskStatus, olderThan time.Duration) ([]Snapshot, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
