package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/model"
)

// DraftValidator checks wizard payloads step by step and the whole draft at
// submission time. Struct tags carry the field rules; the album grid rule
// depends on live catalog config, so it is checked in code.
type DraftValidator struct {
	validate *validator.Validate
}

func New() *DraftValidator {
	return &DraftValidator{validate: validator.New()}
}

func (v *DraftValidator) ClientInfo(info model.ClientInfo) error {
	return v.check(info, "client info is invalid")
}

func (v *DraftValidator) EventDetails(details model.EventDetails) error {
	return v.check(details, "event details are invalid")
}

func (v *DraftValidator) Function(fn model.SelectedFunction) error {
	if err := v.check(fn, "selected function is invalid"); err != nil {
		return err
	}
	if fn.StartTime != "" && fn.EndTime == "" || fn.StartTime == "" && fn.EndTime != "" {
		return apperrors.Validation("selected function is invalid", map[string]any{
			"start_time": "start and end time must be provided together",
		})
	}
	return nil
}

// Album checks the static rules plus the page grid: pages start at the
// configured base and grow in whole increments.
func (v *DraftValidator) Album(album model.AlbumSelection, cfg model.AlbumConfiguration) error {
	if err := v.check(album, "album selection is invalid"); err != nil {
		return err
	}

	if album.Pages < cfg.BasePages {
		return apperrors.Validation("album selection is invalid", map[string]any{
			"pages": fmt.Sprintf("must be at least %d", cfg.BasePages),
		})
	}
	if cfg.PagesIncrement > 0 && (album.Pages-cfg.BasePages)%cfg.PagesIncrement != 0 {
		return apperrors.Validation("album selection is invalid", map[string]any{
			"pages": fmt.Sprintf("must be %d plus a multiple of %d", cfg.BasePages, cfg.PagesIncrement),
		})
	}
	return nil
}

// ForSubmission gates the final submit: contact block complete, at least one
// function selected, signature present and terms accepted.
func (v *DraftValidator) ForSubmission(draft *model.BookingDraft) error {
	details := map[string]any{}

	if err := v.validate.Struct(draft.ClientInfo); err != nil {
		for field, msg := range fieldErrors(err) {
			details["client_info."+field] = msg
		}
	}
	if err := v.validate.Struct(draft.EventDetails); err != nil {
		for field, msg := range fieldErrors(err) {
			details["event_details."+field] = msg
		}
	}

	if len(draft.Functions) == 0 {
		details["functions"] = "at least one function must be selected"
	}
	for _, fn := range draft.Functions {
		if err := v.validate.Struct(fn); err != nil {
			for field, msg := range fieldErrors(err) {
				details["functions."+fn.ID+"."+field] = msg
			}
		}
	}

	if strings.TrimSpace(draft.DigitalSignature) == "" {
		details["digital_signature"] = "signature is required"
	}
	if !draft.TermsAccepted {
		details["terms_accepted"] = "terms must be accepted"
	}

	if len(details) > 0 {
		return apperrors.Validation("booking is not ready for submission", details)
	}
	return nil
}

func (v *DraftValidator) check(s any, message string) error {
	if err := v.validate.Struct(s); err != nil {
		return apperrors.Validation(message, fieldErrors(err))
	}
	return nil
}

// fieldErrors flattens validator.ValidationErrors into field -> message.
func fieldErrors(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"_": err.Error()}
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = messageFor(fe)
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "e164":
		return "must be a valid phone number in international format"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid4":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
