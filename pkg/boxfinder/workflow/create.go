package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/forms"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/places"
)

const (
	msgAddressRequired     = "Please choose or enter an address"
	msgCreateFailed        = "Failed to create box. Please check your details and try again."
	msgAttachFailed        = "Your box was created, but adding you as a member failed. Please try again."
	msgSuggestionsFailed   = "Unable to load suggestions"
	msgSuggestionsDisabled = "Place suggestions are not available"
)

func (w *Workflow) enterCreateGroupLocked() {
	w.subStep = SubStepEssentials
	w.boxValues = forms.Values{forms.FieldName: strings.TrimSpace(w.query)}
	w.latitude = nil
	w.longitude = nil
	w.createdBox = nil
	w.inputChanged = false
	w.closeSuggestionsLocked()
	w.formErr = nil
	w.transitionLocked(StepCreateGroup)
}

// SetBoxName updates the name of the box being created. On the essentials
// sub-step, typed names are looked up as place suggestions.
func (w *Workflow) SetBoxName(name string) error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.createdBox != nil {
		return ErrWrongStep
	}

	w.boxValues[forms.FieldName] = name
	w.formErr = nil
	w.touch()

	if w.subStep != SubStepEssentials {
		return nil
	}
	w.inputChanged = true
	if !longEnough(name) {
		w.closeSuggestionsLocked()
	}
	w.suggestDeb.Set(name)
	return nil
}

func (w *Workflow) onBoxNameSettled(name string) {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed || w.step != StepCreateGroup || w.subStep != SubStepEssentials {
		return
	}
	if !w.inputChanged || !longEnough(name) {
		w.closeSuggestionsLocked()
		return
	}
	if w.opts.Places == nil {
		w.opts.Metrics.Lookup(sourcePlaces, outcomeSkipped)
		return
	}

	w.suggestGen++
	gen := w.suggestGen
	w.suggestLoading = true
	w.suggestErr = ""
	w.touch()

	ctx := w.ctx
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		found, err := w.lookupPlaces(ctx, name)
		w.completeSuggestions(gen, found, err)
	}()
}

func (w *Workflow) lookupPlaces(ctx context.Context, name string) (found []models.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("place lookup panicked: %v", r)
		}
	}()
	return w.opts.Places.Lookup(ctx, name)
}

func (w *Workflow) completeSuggestions(gen uint64, found []models.Candidate, err error) {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed || w.step != StepCreateGroup || gen != w.suggestGen {
		w.opts.Metrics.Lookup(sourcePlaces, outcomeStale)
		return
	}
	w.suggestLoading = false
	w.touch()

	if err != nil {
		w.suggestions = nil
		w.suggestOpen = false
		if errors.Is(err, places.ErrNotConfigured) {
			w.suggestErr = msgSuggestionsDisabled
			w.opts.Metrics.Lookup(sourcePlaces, outcomeUnavailable)
		} else {
			w.suggestErr = msgSuggestionsFailed
			w.opts.Metrics.Lookup(sourcePlaces, outcomeError)
		}
		w.logger.Warn("place lookup failed", "error", err)
		return
	}

	w.suggestions = found
	w.suggestOpen = len(found) > 0
	w.suggestErr = ""
	if len(found) == 0 {
		w.opts.Metrics.Lookup(sourcePlaces, outcomeEmpty)
	} else {
		w.opts.Metrics.Lookup(sourcePlaces, outcomeOK)
	}
}

// ChooseSuggestion pre-fills the creation form from a place suggestion
func (w *Workflow) ChooseSuggestion(placeID string) error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.subStep != SubStepEssentials || w.createdBox != nil {
		return ErrWrongStep
	}

	idx := slices.IndexFunc(w.suggestions, func(c models.Candidate) bool { return c.PlaceID == placeID })
	if idx < 0 {
		return ErrUnknownSuggestion
	}
	c := w.suggestions[idx]

	w.boxValues = forms.Values{
		forms.FieldName:        c.Name,
		forms.FieldLocation:    c.Address,
		forms.FieldCity:        c.City,
		forms.FieldState:       c.State,
		forms.FieldCountry:     c.Country,
		forms.FieldCountryCode: c.CountryCode,
		forms.FieldPhone:       c.Phone,
		forms.FieldWebsite:     c.Website,
	}
	w.latitude = c.Latitude
	w.longitude = c.Longitude
	w.inputChanged = false
	w.suggestDeb.Cancel()
	w.closeSuggestionsLocked()
	w.formErr = nil
	return nil
}

// DismissSuggestions closes the suggestion dropdown
func (w *Workflow) DismissSuggestions() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup {
		return ErrWrongStep
	}
	w.inputChanged = false
	w.suggestDeb.Cancel()
	w.closeSuggestionsLocked()
	return nil
}

// SetBoxField updates a non-name field of the box being created
func (w *Workflow) SetBoxField(field forms.Field, value string) error {
	if field == forms.FieldName {
		return w.SetBoxName(value)
	}

	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.createdBox != nil {
		return ErrWrongStep
	}
	if !slices.Contains(forms.BoxFields, field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !w.fieldEditableLocked(field) {
		return ErrFieldLocked
	}

	w.boxValues[field] = value
	if field == forms.FieldLocation {
		// coordinates belonged to the chosen place, not the typed address
		w.latitude = nil
		w.longitude = nil
	}
	w.formErr = nil
	w.touch()
	return nil
}

// NextSubStep advances the creation form. Leaving the essentials sub-step
// requires an address.
func (w *Workflow) NextSubStep() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.subStep >= SubStepOwnerContact {
		return ErrWrongStep
	}

	if w.subStep == SubStepEssentials {
		if strings.TrimSpace(w.boxValues[forms.FieldLocation]) == "" {
			err := apperr.Rejected(apperr.FieldError{Field: string(forms.FieldLocation), Message: msgAddressRequired})
			w.formErr = errorView(err, "")
			w.touch()
			return err
		}
		w.inputChanged = false
		w.suggestDeb.Cancel()
		w.closeSuggestionsLocked()
	}

	w.subStep++
	w.formErr = nil
	w.touch()
	return nil
}

// PrevSubStep goes back one sub-step, keeping every entered value
func (w *Workflow) PrevSubStep() error {
	w.mu.Lock()
	defer w.unlockAndNotify()

	if w.disposed {
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.subStep <= SubStepEssentials {
		return ErrWrongStep
	}
	w.subStep--
	w.formErr = nil
	w.touch()
	return nil
}

// SubmitBox validates and saves the new box, then attaches the held member
// to it. If the box was saved but the member was not, a later SubmitBox
// only retries the attach.
func (w *Workflow) SubmitBox(ctx context.Context) error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrDisposed
	}
	if w.step != StepCreateGroup || w.subStep != SubStepOwnerContact {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrBusy
	}

	w.submitting = true
	w.formErr = nil
	w.touch()
	created := w.createdBox
	held := *w.heldMember
	raw := w.boxRawLocked()
	w.wg.Add(1)
	w.unlockAndNotify()

	err := w.saveBox(ctx, raw, created, &held)

	w.mu.Lock()
	defer w.unlockAndNotify()
	w.submitting = false
	if w.disposed {
		return ErrDisposed
	}
	return err
}

// saveBox runs the collaborator calls of SubmitBox and records the outcome
func (w *Workflow) saveBox(ctx context.Context, raw map[string]any, created *models.Box, held *models.Member) error {
	defer w.wg.Done()
	ctx, cancel := w.bind(ctx)
	defer cancel()

	if created == nil {
		box, err := w.opts.Validator.ValidateBox(raw)
		if err == nil {
			box, err = w.opts.Directory.CreateBox(ctx, box)
		}
		if err != nil {
			w.logger.Error("failed to create box", "error", err)
			w.setFormError(errorView(err, msgCreateFailed))
			return err
		}
		created = box

		w.mu.Lock()
		if !w.disposed {
			w.createdBox = box
			w.touch()
		}
		w.unlockAndNotify()
	}

	held.BoxID = created.ID
	saved, err := w.opts.Directory.CreateMember(ctx, held)
	if err != nil {
		w.logger.Error("failed to attach member to new box", "box_id", created.ID, "error", err)
		w.setFormError(errorView(err, msgAttachFailed))
		return err
	}

	w.mu.Lock()
	defer w.unlockAndNotify()
	if w.disposed {
		return nil
	}
	w.savedMember = saved
	w.joinedBoxName = created.Name
	w.transitionLocked(StepSuccess)
	return nil
}

func (w *Workflow) setFormError(ev *ErrorView) {
	w.mu.Lock()
	defer w.unlockAndNotify()
	if w.disposed {
		return
	}
	w.formErr = ev
	w.touch()
}

func (w *Workflow) boxRawLocked() map[string]any {
	raw := make(map[string]any, len(forms.BoxFields)+2)
	for _, f := range forms.BoxFields {
		if v := strings.TrimSpace(w.boxValues[f]); v != "" {
			raw[string(f)] = v
		}
	}
	if w.latitude != nil && w.longitude != nil {
		raw["lat"] = *w.latitude
		raw["lng"] = *w.longitude
	}
	return raw
}

// fieldEditableLocked: the name is always editable; other fields open up
// after the essentials sub-step, or on it once the suggestion dropdown is
// closed.
func (w *Workflow) fieldEditableLocked(f forms.Field) bool {
	if f == forms.FieldName {
		return true
	}
	if w.subStep > SubStepEssentials {
		return true
	}
	return !w.suggestOpen
}

func (w *Workflow) closeSuggestionsLocked() {
	w.suggestGen++
	w.suggestions = nil
	w.suggestOpen = false
	w.suggestLoading = false
	w.suggestErr = ""
	w.touch()
}
