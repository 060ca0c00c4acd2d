//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrorBody mirrors the error envelope every failing endpoint returns.
type ErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Retryable bool `json:"retryable"`
	Detail    any  `json:"detail,omitempty"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if targetStruct != nil && expectedStatus >= 200 && expectedStatus < 300 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), targetStruct), "decode success body: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status and that the message contains expectedErrorMsg
// (skipped when empty). It returns the decoded envelope for further checks.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "decode error body: %s", w.Body.String())

	if expectedErrorMsg != "" {
		assert.Contains(t, body.Error.Message, expectedErrorMsg)
	}
	return body
}

// AssertFailure checks the status and the retryable flag callers use to decide on a retry.
func AssertFailure(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, retryable bool) {
	t.Helper()

	body := AssertErrorResponse(t, w, expectedStatus, "")
	assert.Equal(t, retryable, body.Retryable, "retryable flag, body: %s", w.Body.String())
}
