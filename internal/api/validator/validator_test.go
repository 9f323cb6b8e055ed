package validator_test

import (
	"net/http"
	"testing"

	xvalidator "github.com/Behyna/sms-services/messagegateway/internal/api/validator"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendRequest struct {
	From string `json:"from" validate:"required,msisdn"`
	To   string `json:"to" validate:"required,msisdn"`
	Text string `json:"text" validate:"required,max=480"`
}

func newValidator(t *testing.T) xvalidator.IXValidator {
	t.Helper()

	x, err := xvalidator.NewXValidator(validator.New(), metrics.NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)

	return x
}

func TestXValidator_Check(t *testing.T) {
	x := newValidator(t)

	t.Run("valid request", func(t *testing.T) {
		_, ok := x.Check(&sendRequest{From: "+989121234567", To: "989351234567", Text: "hi"}, "test")
		assert.True(t, ok)
	})

	t.Run("invalid request", func(t *testing.T) {
		env, ok := x.Check(&sendRequest{From: "abc", To: "989351234567"}, "test")
		require.False(t, ok)

		assert.Equal(t, constants.ErrCodeValidationFailed, env.Err.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, env.Err.StatusCode)
		assert.Equal(t, "The 'From' field is invalid and The 'Text' field is invalid", env.Err.Message)
		assert.Equal(t, map[string]any{"From": "msisdn", "Text": "required"}, env.Err.Context)
		assert.NotEmpty(t, env.Err.Timestamp)
	})
}

func TestValidate_MSISDN(t *testing.T) {
	x := newValidator(t)

	cases := map[string]bool{
		"+989121234567": true,
		"989121234567":  true,
		"0912":          false,
		"+0123456789":   false,
		"98912abc4567":  false,
	}

	for number, ok := range cases {
		errs := x.Validate(&sendRequest{From: number, To: "989351234567", Text: "x"})
		assert.Equal(t, ok, len(errs) == 0, number)
	}
}
