package workflow

import (
	"fmt"
	"time"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/forms"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/progress"
)

const msgUnexpected = "An unexpected error occurred"

// ErrorView is an error as shown to the visitor
type ErrorView struct {
	Kind    apperr.Kind         `json:"kind"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

func errorView(err error, fallback string) *ErrorView {
	ae := apperr.Classify(err)
	if ae == nil {
		return nil
	}
	msg := ae.Message
	switch ae.Kind {
	case apperr.TransientNetwork:
		msg = msgConnection
	case apperr.Unknown:
		msg = fallback
		if msg == "" {
			msg = msgUnexpected
		}
	}
	return &ErrorView{Kind: ae.Kind, Message: msg, Fields: ae.Fields}
}

// Fault is a rendering failure isolated from the rest of the session
type Fault struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Snapshot is a read-only copy of the workflow state
type Snapshot struct {
	Version uint64 `json:"version"`
	Step    Step   `json:"step"`

	Query            string             `json:"query"`
	DebouncedQuery   string             `json:"debounced_query"`
	Candidates       []models.Candidate `json:"candidates"`
	Loading          bool               `json:"loading"`
	SearchError      string             `json:"search_error,omitempty"`
	RetryAttempt     int                `json:"retry_attempt,omitempty"`
	ShowCreateOption bool               `json:"show_create_option"`

	PendingBox *models.Candidate `json:"pending_box,omitempty"`
	Member     forms.Values      `json:"member,omitempty"`
	Error      *ErrorView        `json:"error,omitempty"`
	Submitting bool              `json:"submitting"`

	SubStep            SubStep            `json:"sub_step"`
	SubStepLabel       string             `json:"sub_step_label,omitempty"`
	Box                forms.Values       `json:"box,omitempty"`
	Latitude           *float64           `json:"lat,omitempty"`
	Longitude          *float64           `json:"lng,omitempty"`
	Suggestions        []models.Candidate `json:"suggestions,omitempty"`
	SuggestionsOpen    bool               `json:"suggestions_open"`
	SuggestionsLoading bool               `json:"suggestions_loading"`
	SuggestionError    string             `json:"suggestion_error,omitempty"`
	CreatedBox         *models.Box        `json:"created_box,omitempty"`

	SavedMember *models.Member `json:"saved_member,omitempty"`
	BoxName     string         `json:"box_name,omitempty"`
}

// View is a snapshot plus the rendered form for the current step
type View struct {
	Snapshot
	Inputs       []forms.Input   `json:"inputs,omitempty"`
	Progress     []progress.Item `json:"progress,omitempty"`
	ProgressText string          `json:"progress_text,omitempty"`
	Fault        *Fault          `json:"fault,omitempty"`
}

// Snapshot returns the current state
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:          w.version,
		Step:             w.step,
		Query:            w.query,
		DebouncedQuery:   w.debounced,
		Candidates:       append([]models.Candidate(nil), w.candidates...),
		Loading:          w.loading,
		SearchError:      w.searchErr,
		RetryAttempt:     w.retryAttempt,
		ShowCreateOption: w.step == StepSearch && w.showCreateOptionLocked(),
		Error:            w.formErr,
		Submitting:       w.submitting,
		SavedMember:      w.savedMember,
		BoxName:          w.joinedBoxName,
	}
	if w.pendingBox != nil {
		pb := *w.pendingBox
		s.PendingBox = &pb
	}
	if w.memberValues != nil {
		s.Member = w.memberValues.Clone()
	}
	if w.step == StepCreateGroup {
		s.SubStep = w.subStep
		s.SubStepLabel = w.subStep.String()
		s.Box = w.boxValues.Clone()
		s.Latitude = w.latitude
		s.Longitude = w.longitude
		s.Suggestions = append([]models.Candidate(nil), w.suggestions...)
		s.SuggestionsOpen = w.suggestOpen
		s.SuggestionsLoading = w.suggestLoading
		s.SuggestionError = w.suggestErr
		s.CreatedBox = w.createdBox
	}
	return s
}

// View renders the current step. A panic while rendering is contained: the
// returned view carries a Fault instead of inputs until Retry is called or
// the fault clears on its own.
func (w *Workflow) View() (v View) {
	w.mu.Lock()
	defer w.mu.Unlock()

	v.Snapshot = w.snapshotLocked()
	if w.fault != nil {
		f := *w.fault
		v.Fault = &f
		return v
	}

	defer func() {
		if r := recover(); r != nil {
			w.raiseFaultLocked(r)
			f := *w.fault
			v = View{Snapshot: w.snapshotLocked(), Fault: &f}
		}
	}()

	if w.opts.beforeRender != nil {
		w.opts.beforeRender()
	}
	w.renderLocked(&v)
	return v
}

func (w *Workflow) renderLocked(v *View) {
	switch w.step {
	case StepCaptureMember, StepJoinGroup:
		editable := func(forms.Field) bool { return !w.submitting }
		v.Inputs = forms.MemberCapture(w.memberValues, editable)
	case StepCreateGroup:
		editable := w.fieldEditableLocked
		switch w.subStep {
		case SubStepEssentials:
			v.Inputs = forms.Essentials(w.boxValues, editable)
		case SubStepContactInfo:
			v.Inputs = forms.ContactInfo(w.boxValues, editable)
		case SubStepOwnerContact:
			v.Inputs = forms.OwnerContact(w.boxValues, editable)
		default:
			panic(fmt.Sprintf("unknown sub-step %d", w.subStep))
		}
		v.Progress = progress.Render(SubStepLabels, int(w.subStep))
		v.ProgressText = progress.String(v.Progress)
	}
}

func (w *Workflow) raiseFaultLocked(r any) {
	msg := msgUnexpected
	if err, ok := r.(error); ok {
		msg = err.Error()
	} else if s, ok := r.(string); ok {
		msg = s
	}
	w.logger.Error("workflow render failed", "panic", r)

	w.fault = &Fault{Message: msg, At: w.opts.Clock.Now()}
	w.faultGen++
	gen := w.faultGen
	stopTimer(&w.faultTimer)
	if w.disposed {
		return
	}
	w.faultTimer = w.opts.Clock.AfterFunc(w.opts.FaultClearDelay, func() {
		w.mu.Lock()
		defer w.unlockAndNotify()
		if w.disposed || gen != w.faultGen {
			return
		}
		w.faultTimer = nil
		w.fault = nil
		w.touch()
	})
	w.touch()
}

// Retry clears an active rendering fault
func (w *Workflow) Retry() {
	w.mu.Lock()
	defer w.unlockAndNotify()
	if w.fault == nil {
		return
	}
	w.faultGen++
	stopTimer(&w.faultTimer)
	w.fault = nil
	w.touch()
}
