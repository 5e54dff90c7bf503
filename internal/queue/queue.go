package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const publishMaxRetry = 3

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueuePublish schedules the publish phases of a started session. The task
// ID is the session ID so a session is never queued twice.
func EnqueuePublish(client Enqueuer, payload PublishVideoPayload, timeout time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishVideo, taskPayload)

	opts := []asynq.Option{
		asynq.TaskID(payload.SessionID),
		asynq.MaxRetry(publishMaxRetry),
	}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}

	info, err := client.Enqueue(task, opts...)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("publish task enqueued", "session", payload.SessionID, "task", info.ID, "queue", info.Queue)
	return nil
}
