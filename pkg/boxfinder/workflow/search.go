package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/validation"
)

const (
	msgRetrying        = "Connection issue. Retrying in %d %s (attempt %d of %d)..."
	msgConnection      = "Unable to connect to the server. Please check your connection and try again."
	msgInvalidQuery    = "Please enter a valid search query"
	msgSearchFailed    = "An unexpected error occurred while searching"
	sourceDirectory    = "directory"
	sourcePlaces       = "places"
	outcomeOK          = "ok"
	outcomeEmpty       = "empty"
	outcomeRetry       = "retry"
	outcomeError       = "error"
	outcomeStale       = "stale"
	outcomeSkipped     = "skipped"
	outcomeUnavailable = "unavailable"
)

// SetQuery updates the search text. Lookups start once the text has been
// stable for the debounce quiet period.
func (w *Workflow) SetQuery(q string) error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepSearch {
		return ErrWrongStep
	}

	w.query = q
	w.searchErr = ""
	if !longEnough(q) {
		w.clearSearchLocked()
	}
	w.touch()
	w.searchDeb.Set(q)
	return nil
}

// SelectCandidate picks a directory box from the current results and moves
// on to member capture.
func (w *Workflow) SelectCandidate(key string) error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepSearch {
		return ErrWrongStep
	}

	for _, c := range w.candidates {
		if c.Key() == key && c.BoxID != "" {
			picked := c
			w.pendingBox = &picked
			w.query = picked.Name
			w.leaveSearchLocked()
			w.transitionLocked(StepCaptureMember)
			return nil
		}
	}
	return ErrUnknownCandidate
}

// DeclineCandidates records that none of the results is the visitor's box
func (w *Workflow) DeclineCandidates() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepSearch {
		return ErrWrongStep
	}

	w.pendingBox = nil
	w.leaveSearchLocked()
	w.transitionLocked(StepCaptureMember)
	return nil
}

func (w *Workflow) onQuerySettled(q string) {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed || w.step != StepSearch {
		return
	}

	w.debounced = q
	w.touch()

	if !longEnough(q) {
		w.clearSearchLocked()
		return
	}

	query, err := validation.ValidateSearchQuery(q)
	if err != nil {
		w.clearSearchLocked()
		w.searchErr = msgInvalidQuery
		return
	}

	w.stopRetryLocked()
	w.lookupGen++
	w.retryAttempt = 0
	w.startLookupLocked(w.lookupGen, query, 0)
}

func (w *Workflow) startLookupLocked(gen uint64, query string, attempt int) {
	if w.lookupCancel != nil {
		w.lookupCancel()
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.lookupCancel = cancel

	w.loading = true
	w.searchErr = ""
	w.touch()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()
		boxes, err := w.findBoxes(ctx, query)
		w.completeLookup(gen, query, attempt, boxes, err)
	}()
}

func (w *Workflow) findBoxes(ctx context.Context, query string) (boxes []models.Box, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("directory lookup panicked: %v", r)
		}
	}()
	return w.opts.Directory.FindBoxesByKeyword(ctx, query)
}

func (w *Workflow) completeLookup(gen uint64, query string, attempt int, boxes []models.Box, err error) {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed || w.step != StepSearch || gen != w.lookupGen {
		w.opts.Metrics.Lookup(sourceDirectory, outcomeStale)
		return
	}
	w.lookupCancel = nil
	w.loading = false
	w.touch()

	if err == nil {
		w.candidates = make([]models.Candidate, len(boxes))
		for i, b := range boxes {
			w.candidates[i] = models.CandidateFromBox(b)
		}
		w.searchErr = ""
		w.retryAttempt = 0
		if len(boxes) == 0 {
			w.opts.Metrics.Lookup(sourceDirectory, outcomeEmpty)
		} else {
			w.opts.Metrics.Lookup(sourceDirectory, outcomeOK)
		}
		return
	}

	w.candidates = nil
	transient := apperr.IsTransient(err)
	if transient && attempt < w.opts.MaxRetries {
		delay := w.opts.RetryBase << attempt
		secs := int(delay.Seconds())
		unit := "second"
		if secs != 1 {
			unit = "seconds"
		}
		w.retryAttempt = attempt + 1
		w.searchErr = fmt.Sprintf(msgRetrying, secs, unit, attempt+1, w.opts.MaxRetries)
		w.opts.Metrics.Lookup(sourceDirectory, outcomeRetry)
		w.logger.Warn("directory lookup failed, retrying", "query", query, "attempt", attempt+1, "delay", delay, "error", err)

		w.retryTimer = w.opts.Clock.AfterFunc(delay, func() {
			w.mu.Lock()
			defer w.unlockAndNotify()
			if w.disposed || w.step != StepSearch || gen != w.lookupGen {
				return
			}
			w.retryTimer = nil
			w.startLookupLocked(gen, query, attempt+1)
		})
		return
	}

	w.opts.Metrics.Lookup(sourceDirectory, outcomeError)
	w.logger.Error("directory lookup failed", "query", query, "attempt", attempt, "error", err)
	switch {
	case transient:
		w.searchErr = msgConnection
	case strings.Contains(strings.ToLower(err.Error()), "invalid"):
		w.searchErr = msgInvalidQuery
	default:
		w.searchErr = msgSearchFailed
	}
}

// clearSearchLocked empties the results and disregards any in-flight lookup
func (w *Workflow) clearSearchLocked() {
	w.lookupGen++
	if w.lookupCancel != nil {
		w.lookupCancel()
		w.lookupCancel = nil
	}
	w.stopRetryLocked()
	w.candidates = nil
	w.loading = false
	w.retryAttempt = 0
	w.touch()
}

// leaveSearchLocked stops all search activity before the step changes
func (w *Workflow) leaveSearchLocked() {
	w.searchDeb.Cancel()
	w.clearSearchLocked()
	w.searchErr = ""
}

func (w *Workflow) stopRetryLocked() {
	stopTimer(&w.retryTimer)
}

// showCreateOptionLocked reports whether the "add your box" affordance is offered
func (w *Workflow) showCreateOptionLocked() bool {
	return !w.loading && w.searchErr == "" && longEnough(w.debounced) && len(w.candidates) == 0
}

func longEnough(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= minQueryLength
}
