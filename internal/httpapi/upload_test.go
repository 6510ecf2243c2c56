package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDataURI_ExtractsPayloadAndContentType(t *testing.T) {
	payload, contentType := splitDataURI("data:image/png;base64,QUJD")
	assert.Equal(t, "QUJD", payload)
	assert.Equal(t, "image/png", contentType)
}

func TestSplitDataURI_PassesThroughRawBase64(t *testing.T) {
	payload, contentType := splitDataURI("QUJD")
	assert.Equal(t, "QUJD", payload)
	assert.Empty(t, contentType)
}
