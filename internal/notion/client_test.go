package notion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	c := New("test-token", "")

	assert.NotNil(t, c.api)
	assert.NotNil(t, c.limiter)
	assert.Equal(t, DefaultBatchSize, c.batchSize)
}

func TestNew_WithOptions(t *testing.T) {
	c := New("test-token", "2022-06-28", WithRateLimit(5.0), WithBatchSize(50))

	assert.Equal(t, 50, c.batchSize)
	assert.NotNil(t, c.limiter)
}

func TestBackoffDelay_NeverExceedsMax(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDelay(attempt)
		assert.LessOrEqual(t, d, maxBackoff)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestIsTransient_NonAPIErrorDefaultsTrue(t *testing.T) {
	assert.True(t, isTransient(assertErr{}))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
