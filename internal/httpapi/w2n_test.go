package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amberpixels/sn2n/internal/config"
)

func testHandler() *Handler {
	return NewHandler(nil, config.DefaultConfig(), nil)
}

func TestHandleW2NCreate_RejectsMissingTitle(t *testing.T) {
	body := `{"contentHtml":"<p>hi</p>","dryRun":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/W2N", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handleW2NCreate(testHandler(), rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestHandleW2NCreate_RejectsMissingDatabaseIDWithoutDryRun(t *testing.T) {
	body := `{"title":"Doc","contentHtml":"<p>hi</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/W2N", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handleW2NCreate(testHandler(), rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "databaseId")
}

func TestHandleW2NCreate_DryRunReturnsBlocksWithoutDatabaseID(t *testing.T) {
	body := `{"title":"Doc","contentHtml":"<p>hello</p>","dryRun":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/W2N", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handleW2NCreate(testHandler(), rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dryRun":true`)
}

func TestHandleW2NCreate_RejectsWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/W2N", nil)
	rec := httptest.NewRecorder()

	handleW2NCreate(testHandler(), rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
