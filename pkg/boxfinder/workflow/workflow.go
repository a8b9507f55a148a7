// Package workflow implements the box search and onboarding state machine.
//
// A Workflow is owned by one visitor. Every user action and every
// asynchronous completion (debounce, lookup result, retry, exit and fault
// timers) runs under the workflow mutex, so transitions are atomic with
// respect to each other. Collaborators are never called with the mutex held;
// their completions carry a generation number and are dropped when the
// generation moved on, the step changed or the workflow was disposed.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mikepea/boxfinder/pkg/boxfinder/clock"
	"github.com/mikepea/boxfinder/pkg/boxfinder/debounce"
	"github.com/mikepea/boxfinder/pkg/boxfinder/forms"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/validation"
)

// Step is a state of the onboarding workflow
type Step string

const (
	StepSearch        Step = "search"
	StepCaptureMember Step = "capture_member"
	StepCreateGroup   Step = "create_group"
	StepJoinGroup     Step = "join_group"
	StepSuccess       Step = "success"
	StepExit          Step = "exit"
)

// SubStep is a page of the box creation form
type SubStep int

const (
	SubStepEssentials SubStep = iota
	SubStepContactInfo
	SubStepOwnerContact
)

// SubStepLabels are shown by the progress indicator
var SubStepLabels = []string{"Box Location", "Box Contact", "Owner Contact"}

func (s SubStep) String() string {
	if s < 0 || int(s) >= len(SubStepLabels) {
		return "unknown"
	}
	return SubStepLabels[s]
}

const (
	DefaultExitDelay       = 5 * time.Second
	DefaultRetryBase       = time.Second
	DefaultMaxRetries      = 2
	DefaultFaultClearDelay = 5 * time.Second

	minQueryLength = 3
)

var (
	ErrWrongStep         = errors.New("action not available in the current step")
	ErrBusy              = errors.New("a submission is already in progress")
	ErrDisposed          = errors.New("workflow has been disposed")
	ErrUnknownCandidate  = errors.New("candidate not found in current results")
	ErrUnknownSuggestion = errors.New("suggestion not found")
	ErrFieldLocked       = errors.New("field cannot be edited yet")
	ErrUnknownField      = errors.New("unknown field")
)

// Directory is the persistence collaborator
type Directory interface {
	FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error)
	CreateBox(ctx context.Context, box *models.Box) (*models.Box, error)
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)
}

// PlaceLookup is the place lookup collaborator
type PlaceLookup interface {
	Lookup(ctx context.Context, text string) ([]models.Candidate, error)
}

// Validator is the validation collaborator
type Validator interface {
	ValidateBox(raw map[string]any) (*models.Box, error)
	ValidateMember(raw map[string]any) (*models.Member, error)
}

// Recorder receives workflow events for metrics
type Recorder interface {
	Transition(from, to string)
	Lookup(source, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string) {}
func (nopRecorder) Lookup(string, string)     {}

// Options configures a Workflow. Directory is required.
type Options struct {
	Directory Directory
	Places    PlaceLookup
	Validator Validator
	Clock     clock.Clock
	Logger    *slog.Logger
	Metrics   Recorder

	DebounceQuiet   time.Duration
	ExitDelay       time.Duration
	RetryBase       time.Duration
	FaultClearDelay time.Duration

	// MaxRetries bounds automatic retries of transient search failures.
	// Zero selects the default; a negative value disables retries.
	MaxRetries int

	// OnChange receives a snapshot after each applied change. It is called
	// without the workflow lock held.
	OnChange func(Snapshot)

	beforeRender func()
}

func (o *Options) setDefaults() {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = nopRecorder{}
	}
	if o.Validator == nil {
		o.Validator = validation.New()
	}
	if o.DebounceQuiet <= 0 {
		o.DebounceQuiet = debounce.DefaultQuiet
	}
	if o.ExitDelay <= 0 {
		o.ExitDelay = DefaultExitDelay
	}
	if o.RetryBase <= 0 {
		o.RetryBase = DefaultRetryBase
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.FaultClearDelay <= 0 {
		o.FaultClearDelay = DefaultFaultClearDelay
	}
}

// Workflow is one visitor's onboarding session
type Workflow struct {
	opts   Options
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	disposed bool
	dirty    bool
	version  uint64
	step     Step

	// search
	searchDeb     *debounce.Debouncer[string]
	query         string
	debounced     string
	candidates    []models.Candidate
	loading       bool
	searchErr     string
	retryAttempt  int
	lookupGen     uint64
	lookupCancel  context.CancelFunc
	retryTimer    clock.Timer
	pendingBox    *models.Candidate
	memberValues  forms.Values
	heldMember    *models.Member
	formErr       *ErrorView
	submitting    bool
	savedMember   *models.Member
	joinedBoxName string

	// box creation
	subStep        SubStep
	boxValues      forms.Values
	latitude       *float64
	longitude      *float64
	suggestDeb     *debounce.Debouncer[string]
	suggestions    []models.Candidate
	suggestOpen    bool
	suggestLoading bool
	suggestErr     string
	suggestGen     uint64
	inputChanged   bool
	createdBox     *models.Box

	exitTimer clock.Timer
	exitGen   uint64

	fault      *Fault
	faultTimer clock.Timer
	faultGen   uint64
}

// New creates a Workflow in the Search step
func New(opts Options) (*Workflow, error) {
	if opts.Directory == nil {
		return nil, errors.New("workflow: directory is required")
	}
	opts.setDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	w := &Workflow{
		opts:   opts,
		logger: opts.Logger.With("component", "workflow"),
		ctx:    ctx,
		cancel: cancel,
		step:   StepSearch,
	}
	w.searchDeb = debounce.New(opts.Clock, opts.DebounceQuiet, w.onQuerySettled)
	w.suggestDeb = debounce.New(opts.Clock, opts.DebounceQuiet, w.onBoxNameSettled)
	return w, nil
}

// Dispose cancels every pending timer and in-flight call and waits for
// background work to finish. Results arriving afterwards are discarded.
func (w *Workflow) Dispose() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	w.disposed = true
	w.cancel()
	w.searchDeb.Stop()
	w.suggestDeb.Stop()
	w.stopRetryLocked()
	stopTimer(&w.exitTimer)
	stopTimer(&w.faultTimer)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Debug("workflow disposed")
}

// Disposed reports whether Dispose has been called
func (w *Workflow) Disposed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disposed
}

// Wait blocks until in-flight background lookups have completed. Call it
// only from the goroutine driving the workflow.
func (w *Workflow) Wait() {
	w.wg.Wait()
}

// Step returns the current step
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Cancel leaves the current step. From Search and CaptureMember the visitor
// exits; from CreateGroup the workflow starts over.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.submitting {
		return ErrBusy
	}

	switch w.step {
	case StepSearch, StepCaptureMember:
		w.leaveSearchLocked()
		w.transitionLocked(StepExit)
		w.scheduleExitLocked()
		return nil
	case StepCreateGroup:
		w.resetLocked()
		return nil
	default:
		return ErrWrongStep
	}
}

// Done returns from Success to a fresh Search
func (w *Workflow) Done() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepSuccess {
		return ErrWrongStep
	}
	w.resetLocked()
	return nil
}

func (w *Workflow) scheduleExitLocked() {
	w.exitGen++
	gen := w.exitGen
	stopTimer(&w.exitTimer)
	w.exitTimer = w.opts.Clock.AfterFunc(w.opts.ExitDelay, func() {
		w.mu.Lock()
		defer w.unlockAndNotify()
		if w.disposed || w.step != StepExit || gen != w.exitGen {
			return
		}
		w.exitTimer = nil
		w.resetLocked()
	})
}

// resetLocked returns to Search and clears all transient context
func (w *Workflow) resetLocked() {
	w.leaveSearchLocked()
	w.closeSuggestionsLocked()
	w.suggestDeb.Cancel()
	stopTimer(&w.exitTimer)
	w.exitGen++

	w.query = ""
	w.debounced = ""
	w.candidates = nil
	w.searchErr = ""
	w.retryAttempt = 0
	w.pendingBox = nil
	w.memberValues = nil
	w.heldMember = nil
	w.formErr = nil
	w.submitting = false
	w.savedMember = nil
	w.joinedBoxName = ""
	w.subStep = SubStepEssentials
	w.boxValues = nil
	w.latitude = nil
	w.longitude = nil
	w.suggestions = nil
	w.suggestErr = ""
	w.inputChanged = false
	w.createdBox = nil

	w.transitionLocked(StepSearch)
}

func (w *Workflow) transitionLocked(to Step) {
	from := w.step
	w.step = to
	w.touch()
	if from != to {
		w.opts.Metrics.Transition(string(from), string(to))
		w.logger.Debug("workflow transition", "from", from, "to", to)
	}
}

func (w *Workflow) touch() {
	w.dirty = true
	w.version++
}

// unlockAndNotify releases the lock and, if state changed, hands a snapshot
// to the observer.
func (w *Workflow) unlockAndNotify() {
	if !w.dirty || w.opts.OnChange == nil {
		w.dirty = false
		w.mu.Unlock()
		return
	}
	w.dirty = false
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.opts.OnChange(snap)
}

// bind derives a context from parent that is also cancelled by Dispose
func (w *Workflow) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(w.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
