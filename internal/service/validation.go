package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

// validationError converts validator output into a ValidationError listing
// each failing field.
func validationError(err error, message string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	details := make([]dto.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	appErr := appErrors.WithDetails(appErrors.ErrValidation, message, details)
	appErr.Err = err
	return appErr
}

func shapeError(err error) error {
	var shape *matching.ShapeError
	if !errors.As(err, &shape) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proctor selection")
	}
	rule := "count"
	switch {
	case errors.Is(err, matching.ErrSelectionDuplicate):
		rule = "unique"
	case errors.Is(err, matching.ErrSelectionEmpty):
		rule = "required"
	}
	appErr := appErrors.WithDetails(appErrors.ErrValidation, shape.Error(), []dto.FieldError{{Field: shape.Field, Rule: rule, Value: shape.Value}})
	appErr.Err = err
	return appErr
}
