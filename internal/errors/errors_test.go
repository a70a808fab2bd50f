package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypeFollowsWrapChain(t *testing.T) {
	base := Input("lines of code must be positive")
	wrapped := fmt.Errorf("estimating vault: %w", base)

	assert.True(t, IsType(wrapped, TypeInput))
	assert.True(t, IsInvalidInput(wrapped))
	assert.False(t, IsType(wrapped, TypeConfig))
	assert.False(t, IsInvalidInput(fmt.Errorf("plain")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Network("telegram unreachable", fmt.Errorf("dial tcp: timeout"))
	assert.Equal(t, "[NETWORK_ERROR] telegram unreachable: dial tcp: timeout", err.Error())

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "dial tcp: timeout", e.Unwrap().Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		errType Type
		status  int
	}{
		{TypeInput, http.StatusBadRequest},
		{TypeParsing, http.StatusBadRequest},
		{TypeNotFound, http.StatusNotFound},
		{TypeNotSupported, http.StatusNotImplemented},
		{TypeNetwork, http.StatusBadGateway},
		{TypeConfig, http.StatusInternalServerError},
		{TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.status, New(tt.errType, "x").HTTPStatus())
		})
	}
}

func TestWithContext(t *testing.T) {
	err := Inputf("unknown project %q", "vault").WithContext("line", 4)
	assert.Equal(t, 4, err.Context["line"])
	assert.Contains(t, err.Error(), `unknown project "vault"`)
}
