package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PengWorks1114/vocabularydb/internal/events"
)

// ExampleGenerationEventHandler turns example-generation request events into
// queued tasks. It is the bridge between the word service, which only emits
// events, and the task runner.
type ExampleGenerationEventHandler struct {
	factory *ExampleGenerationTaskFactory
	runner  *TaskRunner
	logger  *slog.Logger
}

// NewExampleGenerationEventHandler creates the handler. Register it with the
// application's event emitter.
func NewExampleGenerationEventHandler(
	factory *ExampleGenerationTaskFactory,
	runner *TaskRunner,
	logger *slog.Logger,
) *ExampleGenerationEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExampleGenerationEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "example_generation_event_handler"),
	}
}

// HandleEvent creates and submits an example generation task for the word
// named in the event. Events of other types are ignored.
func (h *ExampleGenerationEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeExampleGeneration {
		return nil
	}

	var payload exampleGenerationPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal event payload",
			"error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal event payload: %w", err)
	}

	t, err := h.factory.NewTask(payload.WordID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err, "word_id", payload.WordID, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err, "task_id", t.ID(), "event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("example generation task queued",
		"task_id", t.ID(), "word_id", payload.WordID)
	return nil
}
