package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandlePublishVideoTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishVideoPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode publish payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.SessionID == "" {
		return fmt.Errorf("publish payload without session: %w", asynq.SkipRetry)
	}

	if err := j.ps.Execute(ctx, payload.SessionID); err != nil {
		slog.Error("publish task failed", "session", payload.SessionID, "error", err)
		return err
	}
	return nil
}

// Register adds the queue's handlers to an asynq mux.
func (j *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishVideo, j.HandlePublishVideoTask)
}
