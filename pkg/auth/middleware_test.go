package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runMiddleware(t *testing.T, secret, header string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "success")
	}

	err := BearerAuth(secret, zap.NewNop())(handler)(c)
	return rec, called, err
}

func TestBearerAuth_ValidToken(t *testing.T) {
	rec, called, err := runMiddleware(t, "s3cret", "Bearer s3cret")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_SchemeIsCaseInsensitive(t *testing.T) {
	_, called, err := runMiddleware(t, "s3cret", "bearer s3cret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestBearerAuth_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
	}{
		{name: "missing header", secret: "s3cret", header: ""},
		{name: "wrong token", secret: "s3cret", header: "Bearer nope"},
		{name: "token prefix", secret: "s3cret", header: "Bearer s3cre"},
		{name: "basic scheme", secret: "s3cret", header: "Basic czNjcmV0"},
		{name: "raw token", secret: "s3cret", header: "s3cret"},
		{name: "bearer without token", secret: "s3cret", header: "Bearer "},
		{name: "empty secret", secret: "", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called, err := runMiddleware(t, tt.secret, tt.header)
			assert.False(t, called)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
			assert.Equal(t, `Bearer realm=""`, rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}
}

func TestValidToken(t *testing.T) {
	assert.True(t, ValidToken([]byte("abc"), "abc"))
	assert.False(t, ValidToken([]byte("abc"), "abcd"))
	assert.False(t, ValidToken([]byte("abc"), ""))
	assert.False(t, ValidToken(nil, ""))
}

func TestExtractBearerToken(t *testing.T) {
	token, ok := extractBearerToken("Bearer abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = extractBearerToken("Bearer")
	assert.False(t, ok)
}
