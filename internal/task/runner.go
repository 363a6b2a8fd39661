package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no room.
var ErrQueueFull = errors.New("task queue is full")

// TaskRunnerConfig holds configuration for the task runner.
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int

	// StuckTaskAge defines how long a task can stay in processing state
	// before it is considered stuck and reset to pending.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to scan for stuck tasks.
	// Zero means every 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults.
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing: persisting submitted tasks,
// feeding them to a worker pool, and recovering unfinished work after a
// restart.
type TaskRunner struct {
	store     TaskStore
	taskChan  chan Task
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	config    TaskRunnerConfig
	logger    *slog.Logger
	factories map[string]Factory
}

// NewTaskRunner creates a TaskRunner. Call RegisterFactory for every task
// type before Start so persisted tasks can be rehydrated.
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TaskRunner{
		store:     store,
		taskChan:  make(chan Task, config.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		config:    config,
		logger:    logger.With("component", "task_runner"),
		factories: make(map[string]Factory),
	}
}

// RegisterFactory associates a task type with the factory that rebuilds its
// tasks from persisted snapshots.
func (r *TaskRunner) RegisterFactory(taskType string, factory Factory) {
	r.factories[taskType] = factory
}

// Submit persists a task and queues it for execution.
func (r *TaskRunner) Submit(ctx context.Context, t Task) error {
	if err := r.store.SaveTask(ctx, t); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- t:
		return nil
	default:
		// The task stays pending in the store; recovery or the stuck-task
		// monitor will pick it up later.
		return fmt.Errorf("%w: capacity %d", ErrQueueFull, cap(r.taskChan))
	}
}

// Start recovers unfinished tasks and launches the worker pool.
func (r *TaskRunner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop shuts down the runner, waiting for in-flight tasks to finish.
func (r *TaskRunner) Stop() {
	r.cancel()
	r.wg.Wait()
	close(r.taskChan)
}

// recover requeues tasks left pending or processing by a previous run.
func (r *TaskRunner) recover() error {
	ctx := context.Background()

	pending, err := r.store.ListByStatus(ctx, TaskStatusPending, 0)
	if err != nil {
		return fmt.Errorf("failed to list pending tasks: %w", err)
	}

	processing, err := r.store.ListByStatus(ctx, TaskStatusProcessing, 0)
	if err != nil {
		return fmt.Errorf("failed to list processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, snap := range pending {
		r.requeueSnapshot(ctx, snap)
	}
	for _, snap := range processing {
		if err := r.store.UpdateTaskStatus(ctx, snap.ID, TaskStatusPending,
			"reset after recovery"); err != nil {
			r.logger.Error("failed to reset interrupted task",
				"task_id", snap.ID, "task_type", snap.Type, "error", err)
			continue
		}
		r.requeueSnapshot(ctx, snap)
	}

	return nil
}

// requeueSnapshot rehydrates a persisted task and puts it back on the queue.
// Snapshots with no registered factory are marked failed.
func (r *TaskRunner) requeueSnapshot(ctx context.Context, snap Snapshot) {
	factory, ok := r.factories[snap.Type]
	if !ok {
		r.logger.Error("no factory registered for task type",
			"task_id", snap.ID, "task_type", snap.Type)
		r.markFailed(ctx, snap.ID, "no factory registered for task type "+snap.Type)
		return
	}

	t, err := factory(snap.ID, snap.Payload)
	if err != nil {
		r.logger.Error("failed to rehydrate task",
			"task_id", snap.ID, "task_type", snap.Type, "error", err)
		r.markFailed(ctx, snap.ID, err.Error())
		return
	}

	select {
	case r.taskChan <- t:
	default:
		// Left pending in the store for a later recovery pass.
		r.logger.Warn("queue full while requeueing task",
			"task_id", snap.ID, "task_type", snap.Type)
	}
}

func (r *TaskRunner) markFailed(ctx context.Context, taskID uuid.UUID, msg string) {
	if err := r.store.UpdateTaskStatus(ctx, taskID, TaskStatusFailed, msg); err != nil {
		r.logger.Error("failed to mark task failed", "task_id", taskID, "error", err)
	}
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case t, ok := <-r.taskChan:
			if !ok {
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask runs one task, recording its state transitions in the store.
func (r *TaskRunner) processTask(t Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", t.ID(),
		"task_type", t.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to mark task processing", "error", err)
		return
	}

	log.Debug("processing task")

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed", "error", err)
		r.markFailed(ctx, t.ID(), err.Error())
		return
	}

	log.Info("task completed")
	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to mark task completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have sat in processing
// state longer than StuckTaskAge, requeueing them for another attempt.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			ctx := context.Background()
			stuck, err := r.store.ListByStatus(ctx, TaskStatusProcessing, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to scan for stuck tasks", "error", err)
				continue
			}

			for _, snap := range stuck {
				if err := r.store.UpdateTaskStatus(ctx, snap.ID, TaskStatusPending,
					"reset after exceeding processing age"); err != nil {
					r.logger.Error("failed to reset stuck task",
						"task_id", snap.ID, "error", err)
					continue
				}
				r.requeueSnapshot(ctx, snap)
			}
		}
	}
}
