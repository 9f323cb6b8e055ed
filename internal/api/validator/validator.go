package validator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/go-playground/validator/v10"
)

const (
	sep = " and "
)

type Error struct {
	FailedField string
	Tag         string
	Value       any
}

type IXValidator interface {
	// Check returns a VALIDATION_FAILED envelope when data breaks a rule.
	Check(data any, endpoint string) (envelope.Error, bool)
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(v *validator.Validate, m *metrics.Metrics) (IXValidator, error) {
	for key, function := range valid {
		if err := v.RegisterValidation(key, function); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", key, err)
		}
	}

	return &XValidator{validator: v, metrics: m}, nil
}

func (x *XValidator) Check(data any, endpoint string) (envelope.Error, bool) {
	start := time.Now()

	errs := x.Validate(data)
	if len(errs) == 0 {
		if x.metrics != nil {
			x.metrics.RecordValidationDuration(endpoint, time.Since(start))
		}
		return envelope.Error{}, true
	}

	errMsgs := make([]string, 0, len(errs))
	failed := make(map[string]any, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(constants.MessageErrorFormat, err.FailedField))
		failed[err.FailedField] = err.Tag

		if x.metrics != nil {
			x.metrics.RecordValidationError(err.FailedField, err.Tag)
		}
	}

	if x.metrics != nil {
		x.metrics.RecordValidationDuration(endpoint, time.Since(start))
	}

	return envelope.NewError(
		constants.ErrCodeValidationFailed,
		strings.Join(errMsgs, sep),
		http.StatusUnprocessableEntity,
		envelope.WithContext(failed),
	), false
}

func (x *XValidator) Validate(data any) []Error {
	var validationErrors []Error

	err := x.validator.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []Error{{FailedField: "request", Tag: "struct"}}
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, Error{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Value(),
		})
	}

	return validationErrors
}
