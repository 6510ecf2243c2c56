package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientTimeoutBudget_DefaultsWhenHeaderAbsent(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/W2N", nil)
	assert.Equal(t, defaultClientTimeoutBudget, clientTimeoutBudget(r))
}

func TestClientTimeoutBudget_UsesHeaderSeconds(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/W2N", nil)
	r.Header.Set("X-Client-Timeout-Budget", "300")
	assert.Equal(t, 300*time.Second, clientTimeoutBudget(r))
}

func TestClientTimeoutBudget_ClampsAboveMax(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/W2N", nil)
	r.Header.Set("X-Client-Timeout-Budget", "99999")
	assert.Equal(t, maxClientTimeoutBudget, clientTimeoutBudget(r))
}

func TestClientTimeoutBudget_FallsBackOnGarbage(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/W2N", nil)
	r.Header.Set("X-Client-Timeout-Budget", "not-a-number")
	assert.Equal(t, defaultClientTimeoutBudget, clientTimeoutBudget(r))
}
