package publish

import (
	"encoding/json"
	"fmt"
	"time"
)

type Phase string

const (
	PhaseCreate Phase = "create"
	PhaseUpload Phase = "upload"
	PhaseVerify Phase = "verify"
)

type StepStatus string

const (
	StepNotStarted StepStatus = "notStarted"
	StepProgress   StepStatus = "progress"
	StepCompleted  StepStatus = "completed"
	StepError      StepStatus = "error"
)

type Steps struct {
	Create StepStatus `json:"create"`
	Upload StepStatus `json:"upload"`
	Verify StepStatus `json:"verify"`
}

func initialSteps() Steps {
	return Steps{Create: StepNotStarted, Upload: StepNotStarted, Verify: StepNotStarted}
}

func (s *Steps) set(phase Phase, status StepStatus) {
	switch phase {
	case PhaseCreate:
		s.Create = status
	case PhaseUpload:
		s.Upload = status
	case PhaseVerify:
		s.Verify = status
	}
}

// Progress checkpoints reported at phase boundaries.
const (
	ProgressStarted    = 0
	ProgressAssetReady = 20
	ProgressCreated    = 40
	ProgressUploaded   = 60
	ProgressVerified   = 100
)

type Status string

const (
	StatusForm      Status = "form"
	StatusUploading Status = "uploading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is one of Form, Uploading, Succeeded or Failed.
type State interface {
	Status() Status
	sealed()
}

type Form struct{}

type Uploading struct {
	Phase Phase
}

type Succeeded struct {
	PublishID string
}

type Failed struct {
	Phase   Phase
	Message string
}

func (Form) Status() Status      { return StatusForm }
func (Uploading) Status() Status { return StatusUploading }
func (Succeeded) Status() Status { return StatusSucceeded }
func (Failed) Status() Status    { return StatusFailed }

func (Form) sealed()      {}
func (Uploading) sealed() {}
func (Succeeded) sealed() {}
func (Failed) sealed()    {}

type FormData struct {
	Title        string `json:"title"`
	Privacy      string `json:"privacy"`
	AllowComment bool   `json:"allow_comment"`
	AllowDuet    bool   `json:"allow_duet"`
	AllowStitch  bool   `json:"allow_stitch"`
}

// Session is the publish state of one clip. It is only mutated through the
// transition methods below.
type Session struct {
	ID          string
	UserID      string
	AssetKey    string
	DurationSec float64
	FormData    FormData
	PublishID   string
	Progress    int
	Steps       Steps
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	state State
}

func NewSession(id, userID string, form FormData) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		FormData:  form,
		Steps:     initialSteps(),
		CreatedAt: now,
		UpdatedAt: now,
		state:     Form{},
	}
}

func (s *Session) State() State {
	if s.state == nil {
		return Form{}
	}
	return s.state
}

func (s *Session) begin() error {
	switch s.State().(type) {
	case Form:
		s.state = Uploading{Phase: PhaseCreate}
		s.Steps = Steps{Create: StepProgress, Upload: StepNotStarted, Verify: StepNotStarted}
		s.Progress = ProgressStarted
		s.Error = ""
		s.touch()
		return nil
	case Uploading, Succeeded, Failed:
		return s.invalid("begin")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

func (s *Session) checkpoint(progress int) error {
	switch s.State().(type) {
	case Uploading:
		s.Progress = progress
		s.touch()
		return nil
	case Form, Succeeded, Failed:
		return s.invalid("checkpoint")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

// complete marks the current phase completed and moves into next.
func (s *Session) complete(next Phase, progress int) error {
	switch st := s.State().(type) {
	case Uploading:
		s.Steps.set(st.Phase, StepCompleted)
		s.Steps.set(next, StepProgress)
		s.state = Uploading{Phase: next}
		s.Progress = progress
		s.touch()
		return nil
	case Form, Succeeded, Failed:
		return s.invalid("complete")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

func (s *Session) succeed() error {
	switch st := s.State().(type) {
	case Uploading:
		s.Steps.set(st.Phase, StepCompleted)
		s.state = Succeeded{PublishID: s.PublishID}
		s.Progress = ProgressVerified
		s.touch()
		return nil
	case Form, Succeeded, Failed:
		return s.invalid("succeed")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

// fail marks the current phase as errored. Later phases keep notStarted.
func (s *Session) fail(message string) error {
	switch st := s.State().(type) {
	case Uploading:
		s.Steps.set(st.Phase, StepError)
		s.state = Failed{Phase: st.Phase, Message: message}
		s.Error = message
		s.touch()
		return nil
	case Form, Succeeded, Failed:
		return s.invalid("fail")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

func (s *Session) reset() error {
	switch s.State().(type) {
	case Failed:
		s.state = Form{}
		s.Steps = initialSteps()
		s.Progress = ProgressStarted
		s.Error = ""
		s.PublishID = ""
		s.touch()
		return nil
	case Form, Uploading, Succeeded:
		return s.invalid("reset")
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
}

func (s *Session) invalid(transition string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, transition, s.State().Status())
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

type sessionJSON struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AssetKey    string    `json:"asset_key"`
	DurationSec float64   `json:"duration_sec"`
	Status      Status    `json:"status"`
	Phase       Phase     `json:"phase,omitempty"`
	PublishID   string    `json:"publish_id,omitempty"`
	Progress    int       `json:"progress"`
	Steps       Steps     `json:"steps"`
	Error       string    `json:"error,omitempty"`
	FormData    FormData  `json:"form_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	out := sessionJSON{
		ID:          s.ID,
		UserID:      s.UserID,
		AssetKey:    s.AssetKey,
		DurationSec: s.DurationSec,
		Status:      s.State().Status(),
		PublishID:   s.PublishID,
		Progress:    s.Progress,
		Steps:       s.Steps,
		Error:       s.Error,
		FormData:    s.FormData,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	switch st := s.State().(type) {
	case Uploading:
		out.Phase = st.Phase
	case Failed:
		out.Phase = st.Phase
	case Form, Succeeded:
	default:
		panic(fmt.Sprintf("publish: unknown state %T", s.state))
	}
	return json.Marshal(out)
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var state State
	switch in.Status {
	case StatusForm, "":
		state = Form{}
	case StatusUploading:
		state = Uploading{Phase: in.Phase}
	case StatusSucceeded:
		state = Succeeded{PublishID: in.PublishID}
	case StatusFailed:
		state = Failed{Phase: in.Phase, Message: in.Error}
	default:
		return fmt.Errorf("unknown session status %q", in.Status)
	}

	*s = Session{
		ID:          in.ID,
		UserID:      in.UserID,
		AssetKey:    in.AssetKey,
		DurationSec: in.DurationSec,
		FormData:    in.FormData,
		PublishID:   in.PublishID,
		Progress:    in.Progress,
		Steps:       in.Steps,
		Error:       in.Error,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
		state:       state,
	}
	return nil
}
