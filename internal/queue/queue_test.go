package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/clipstudio/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	return &asynq.TaskInfo{ID: "t1", Queue: "default"}, nil
}

func TestEnqueuePublish(t *testing.T) {
	enq := &recordingEnqueuer{}

	require.NoError(t, EnqueuePublish(enq, PublishVideoPayload{SessionID: "sess1"}, time.Minute))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskTypePublishVideo, enq.tasks[0].Type())

	var payload PublishVideoPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "sess1", payload.SessionID)

	var types []asynq.OptionType
	for _, o := range enq.opts[0] {
		types = append(types, o.Type())
	}
	assert.ElementsMatch(t, []asynq.OptionType{asynq.TaskIDOpt, asynq.MaxRetryOpt, asynq.TimeoutOpt}, types)
}

func TestEnqueuePublish_Error(t *testing.T) {
	enq := &recordingEnqueuer{err: asynq.ErrTaskIDConflict}

	err := EnqueuePublish(enq, PublishVideoPayload{SessionID: "sess1"}, 0)

	assert.ErrorIs(t, err, asynq.ErrTaskIDConflict)
}

func TestHandlePublishVideoTask(t *testing.T) {
	ps := new(mocks.MockPublishService)
	q := NewQueue(ps)
	ctx := context.Background()

	ps.On("Execute", ctx, "sess1").Return(nil)

	payload, _ := json.Marshal(PublishVideoPayload{SessionID: "sess1"})
	assert.NoError(t, q.HandlePublishVideoTask(ctx, asynq.NewTask(TaskTypePublishVideo, payload)))
	ps.AssertExpectations(t)
}

func TestHandlePublishVideoTask_PropagatesError(t *testing.T) {
	ps := new(mocks.MockPublishService)
	q := NewQueue(ps)
	boom := errors.New("redis down")

	ps.On("Execute", mock.Anything, "sess1").Return(boom)

	payload, _ := json.Marshal(PublishVideoPayload{SessionID: "sess1"})
	assert.ErrorIs(t, q.HandlePublishVideoTask(context.Background(), asynq.NewTask(TaskTypePublishVideo, payload)), boom)
}

func TestHandlePublishVideoTask_BadPayloadSkipsRetry(t *testing.T) {
	ps := new(mocks.MockPublishService)
	q := NewQueue(ps)

	err := q.HandlePublishVideoTask(context.Background(), asynq.NewTask(TaskTypePublishVideo, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = q.HandlePublishVideoTask(context.Background(), asynq.NewTask(TaskTypePublishVideo, []byte("{}")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	ps.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
