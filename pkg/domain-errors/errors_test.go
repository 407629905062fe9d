package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeConflict, "busy")
		outer := Wrap(inner, CodeInternal, "submit failed")

		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeConflict))
		assert.False(t, HasCode(outer, CodeNotFound))
	})

	t.Run("sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeValidation, "bad"))
		assert.True(t, HasCode(err, CodeValidation))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestIsMatchesOutermostOnly(t *testing.T) {
	err := Wrap(New(CodeConflict, "busy"), CodeInternal, "submit failed")
	assert.True(t, Is(err, CodeInternal))
	assert.False(t, Is(err, CodeConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, "persist ledger")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "persist ledger: disk full", err.Error())
	assert.Nil(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("invalid worker form", map[string]string{"mobile": "must be 10 digits"})

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "must be 10 digits", de.Fields["mobile"])
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeBadRequest:      http.StatusBadRequest,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodePaymentDeclined: http.StatusPaymentRequired,
		CodePaymentFailed:   http.StatusBadGateway,
		CodeInternal:        http.StatusInternalServerError,
		Code("unknown"):     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
