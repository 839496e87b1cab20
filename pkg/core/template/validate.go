package template

import (
	"fmt"
	"strings"

	"github.com/matzehuels/slotcraft/pkg/errors"
)

// ValidationError describes one problem found in a template.
// SlotID is empty for template-level problems.
type ValidationError struct {
	Code    errors.Code `json:"code"`
	SlotID  string      `json:"slotId,omitempty"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validation is the result of [Validate].
type Validation struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Has reports whether any error carries code.
func (v Validation) Has(code errors.Code) bool {
	for _, e := range v.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err folds a failed validation into a single INVALID_TEMPLATE error.
// It returns nil for valid templates.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Error()
	}
	return errors.New(errors.ErrCodeInvalidTemplate, "%s", strings.Join(msgs, "; "))
}

// Validate checks a template's structural invariants and reports every
// violation at once. Validation is advisory: matching still runs against an
// invalid template.
//
// Checks:
//   - EMPTY_SLOT_SET: the template has no slots
//   - DUPLICATE_SLOT_ID: two slots share an id (reported once per extra occurrence)
//   - OUT_OF_BOUNDS_GEOMETRY: a position or size component outside [0,100] or NaN
//   - EMPTY_ACCEPTED_TYPES: a slot accepts no asset types
//   - INVALID_OPACITY: a default opacity outside [0,100]
func Validate(t Template) Validation {
	errs := []ValidationError{}

	if len(t.Slots) == 0 {
		errs = append(errs, ValidationError{
			Code:    errors.ErrCodeEmptySlotSet,
			Message: fmt.Sprintf("template %q has no slots", t.ID),
		})
	}

	seen := make(map[string]struct{}, len(t.Slots))
	for _, s := range t.Slots {
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, ValidationError{
				Code:    errors.ErrCodeDuplicateSlotID,
				SlotID:  s.ID,
				Field:   "id",
				Message: fmt.Sprintf("slot id %q is used more than once", s.ID),
			})
		}
		seen[s.ID] = struct{}{}

		for _, f := range []struct {
			name  string
			value float64
		}{
			{"position.x", s.Position.X},
			{"position.y", s.Position.Y},
			{"size.width", s.Size.Width},
			{"size.height", s.Size.Height},
		} {
			if !inPercentRange(f.value) {
				errs = append(errs, ValidationError{
					Code:    errors.ErrCodeOutOfBounds,
					SlotID:  s.ID,
					Field:   f.name,
					Message: fmt.Sprintf("slot %q %s = %v is outside [0,100]", s.ID, f.name, f.value),
				})
			}
		}

		if len(s.AcceptedTypes) == 0 {
			errs = append(errs, ValidationError{
				Code:    errors.ErrCodeEmptyAcceptedTypes,
				SlotID:  s.ID,
				Field:   "acceptedTypes",
				Message: fmt.Sprintf("slot %q accepts no asset types", s.ID),
			})
		}

		if !inPercentRange(s.DefaultOpacity) {
			errs = append(errs, ValidationError{
				Code:    errors.ErrCodeInvalidOpacity,
				SlotID:  s.ID,
				Field:   "defaultOpacity",
				Message: fmt.Sprintf("slot %q default opacity %v is outside [0,100]", s.ID, s.DefaultOpacity),
			})
		}
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}

// inPercentRange is false for NaN.
func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}
