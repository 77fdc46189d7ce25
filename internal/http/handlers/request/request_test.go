package request

import (
	"net/http"
	"net/http/httptest"
	"passreset/internal/core/domain/logging"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r *http.Request) (logging.Request, *httptest.ResponseRecorder) {
	var captured logging.Request
	handler := SetRequestToContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = logging.RequestFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return captured, rec
}

func TestRequestIDIsGeneratedWhenMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"

	captured, rec := serve(r)

	_, err := uuid.Parse(captured.ID)
	require.Nil(t, err)
	assert.Equal(t, "10.0.0.7", captured.RemoteAddr)
	assert.Equal(t, captured.ID, rec.Header().Get(REQUEST_ID_HEADER))
}

func TestRequestIDIsTakenFromHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(REQUEST_ID_HEADER, "upstream-42")

	captured, rec := serve(r)

	assert.Equal(t, "upstream-42", captured.ID)
	assert.Equal(t, "upstream-42", rec.Header().Get(REQUEST_ID_HEADER))
}

func TestTooLongRequestIDIsReplaced(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(REQUEST_ID_HEADER, strings.Repeat("x", REQUEST_ID_MAX_LEN+1))

	captured, _ := serve(r)

	_, err := uuid.Parse(captured.ID)
	assert.Nil(t, err)
}
