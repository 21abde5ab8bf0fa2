package validator

import (
	"errors"
	"fmt"
	"strings"

	"repairshop/pkg/logger"
	"repairshop/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RequestValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRequestValidator(log *logger.Logger) *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RequestValidator) Validate(req *model.ServiceRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *RequestValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		var message string

		switch err.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "e164":
			message = "must be a phone number in E.164 format"
		case "oneof":
			message = fmt.Sprintf("must be one of: %s", err.Param())
		case "min":
			message = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s", err.Param())
		case "len":
			message = fmt.Sprintf("must be exactly %s characters", err.Param())
		case "numeric":
			message = "must contain only digits"
		default:
			message = fmt.Sprintf("failed %s validation", err.Tag())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
