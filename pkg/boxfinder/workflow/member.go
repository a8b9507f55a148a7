package workflow

import (
	"context"
	"regexp"
	"strings"

	"github.com/mikepea/boxfinder/pkg/boxfinder/apperr"
	"github.com/mikepea/boxfinder/pkg/boxfinder/device"
	"github.com/mikepea/boxfinder/pkg/boxfinder/forms"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// memberChecks are the required-field checks run before the validator
var memberChecks = []struct {
	field   forms.Field
	message string
}{
	{forms.FieldFirstName, "First name is required"},
	{forms.FieldLastName, "Last name is required"},
	{forms.FieldCountry, "Country is required"},
	{forms.FieldEmail, "Email is required"},
}

// SubmitMember validates the member form. With a selected box the member is
// saved right away; otherwise it is held until the new box exists.
func (w *Workflow) SubmitMember(ctx context.Context, values forms.Values, probe device.Probe) error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrDisposed
	}
	if w.step != StepCaptureMember {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrBusy
	}

	w.memberValues = values.Clone()
	w.formErr = nil
	w.touch()

	if err := checkMember(values); err != nil {
		w.formErr = errorView(err, "")
		w.unlockAndNotify()
		return err
	}

	raw := map[string]any{
		"first_name":   strings.TrimSpace(values[forms.FieldFirstName]),
		"last_name":    strings.TrimSpace(values[forms.FieldLastName]),
		"country":      strings.TrimSpace(values[forms.FieldCountry]),
		"email":        strings.TrimSpace(values[forms.FieldEmail]),
		"submitted_by": string(device.Classify(probe)),
	}
	var box *models.Candidate
	if w.pendingBox != nil {
		picked := *w.pendingBox
		box = &picked
		raw["box_id"] = box.BoxID
	}
	w.submitting = true
	w.unlockAndNotify()

	member, err := w.opts.Validator.ValidateMember(raw)

	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrDisposed
	}
	if err != nil {
		w.submitting = false
		w.formErr = errorView(err, "")
		w.touch()
		w.unlockAndNotify()
		return err
	}

	if box == nil {
		w.submitting = false
		w.heldMember = member
		w.enterCreateGroupLocked()
		w.unlockAndNotify()
		return nil
	}

	w.transitionLocked(StepJoinGroup)
	w.wg.Add(1)
	w.unlockAndNotify()

	saved, err := w.createMember(ctx, member)

	w.mu.Lock()
	defer w.unlockAndNotify()
	w.submitting = false
	if w.disposed {
		return ErrDisposed
	}
	if err != nil {
		w.formErr = errorView(err, "Failed to add member to "+box.Name+". Please check your details and try again.")
		w.logger.Error("failed to add member", "box_id", box.BoxID, "error", err)
		w.transitionLocked(StepCaptureMember)
		return err
	}

	w.savedMember = saved
	w.joinedBoxName = box.Name
	w.transitionLocked(StepSuccess)
	return nil
}

// createMember calls the directory; the caller has already added to w.wg.
func (w *Workflow) createMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	defer w.wg.Done()
	ctx, cancel := w.bind(ctx)
	defer cancel()
	return w.opts.Directory.CreateMember(ctx, member)
}

func checkMember(values forms.Values) error {
	for _, c := range memberChecks {
		if strings.TrimSpace(values[c.field]) == "" {
			return apperr.Rejected(apperr.FieldError{Field: string(c.field), Message: c.message})
		}
	}
	if !emailPattern.MatchString(strings.TrimSpace(values[forms.FieldEmail])) {
		return apperr.Rejected(apperr.FieldError{
			Field:   string(forms.FieldEmail),
			Message: "Please enter a valid email address",
		})
	}
	return nil
}
