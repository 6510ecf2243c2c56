package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_NoWarningsOnCleanUpload(t *testing.T) {
	result := &Result{PageID: "page-1", URL: "https://notion.so/page-1"}
	assert.Empty(t, result.Warnings)
}

func TestWarning_CarriesChunkIndex(t *testing.T) {
	w := Warning{Code: "APPEND_FAILED", ChunkIndex: 2, Message: "boom"}
	assert.Equal(t, 2, w.ChunkIndex)
	assert.Equal(t, "APPEND_FAILED", w.Code)
}
