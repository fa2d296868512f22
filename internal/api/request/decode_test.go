package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pointsrummy/internal/api/apierr"
)

func decodeBody(t *testing.T, body string, dst any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	if err := Decode(req, dst); err != nil {
		apierr.WriteError(rec, err)
	}
	return rec
}

func TestDecodeValidRegister(t *testing.T) {
	var req RegisterRequest
	rec := decodeBody(t, `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, &req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", req.Email)
}

func TestDecodeReportsFieldErrors(t *testing.T) {
	var req RegisterRequest
	rec := decodeBody(t, `{"name":"","email":"not-an-email","password":"123"}`, &req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"is required"`)
	assert.Contains(t, rec.Body.String(), `"email":"must be a valid email"`)
	assert.Contains(t, rec.Body.String(), `"password":"must be at least 6 characters"`)
}

func TestDecodeRejectsNonPositiveAmount(t *testing.T) {
	var req CoinAdjustmentRequest
	rec := decodeBody(t, `{"amount":-5}`, &req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount"`)
}

func TestDecodeRejectsAmountAboveCap(t *testing.T) {
	var req CoinAdjustmentRequest
	rec := decodeBody(t, `{"amount":9223372036854775807}`, &req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"must be at most 1000000000"`)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	var req LoginRequest
	rec := decodeBody(t, `{"email":`, &req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestFieldErrorsValid(t *testing.T) {
	details, err := FieldErrors(&CoinAdjustmentRequest{Amount: 10})
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestFieldErrorsKeyedByJSONName(t *testing.T) {
	details, err := FieldErrors(&RegisterRequest{Name: "Bob", Email: "bob", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "must be a valid email"}, details)
}
