package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInto(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	var dst struct {
		Name string `json:"name"`
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return w, DecodeJSON(w, r, &dst)
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "invalid_json", payload["error"])
	return payload["message"]
}

func TestDecodeJSON_ValidBody(t *testing.T) {
	w, ok := decodeInto(t, `{"name":"baseline"}`)
	assert.True(t, ok)
	assert.Empty(t, w.Body.String())
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	w, ok := decodeInto(t, "")
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request body is required", errorMessage(t, w))
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	w, ok := decodeInto(t, `{"name":`)
	require.False(t, ok)
	assert.Equal(t, "request body is not valid JSON", errorMessage(t, w))
}

func TestDecodeJSON_WrongFieldType(t *testing.T) {
	w, ok := decodeInto(t, `{"name":7}`)
	require.False(t, ok)
	assert.Equal(t, `field "name" has the wrong type`, errorMessage(t, w))
}

func TestDecodeJSON_UnknownFieldRejected(t *testing.T) {
	w, ok := decodeInto(t, `{"name":"x","bogus":true}`)
	require.False(t, ok)
	assert.Contains(t, errorMessage(t, w), "bogus")
}

func TestDecodeJSON_TrailingDataRejected(t *testing.T) {
	w, ok := decodeInto(t, `{"name":"x"}{"name":"y"}`)
	require.False(t, ok)
	assert.Equal(t, "request body must contain a single JSON object", errorMessage(t, w))
}
