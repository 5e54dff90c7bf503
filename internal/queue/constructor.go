package queue

import (
	"github.com/maheshrc27/clipstudio/internal/service"
)

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypePublishVideo = "publish:video"

type PublishVideoPayload struct {
	SessionID string `json:"session_id"`
}
