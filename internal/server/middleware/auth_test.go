package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runAuth(t *testing.T, app *App, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/chains", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	cc := &AppContext{c, app}

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "next")
	}
	if err := AuthMiddleware(next)(cc); err != nil {
		t.Fatalf("middleware error = %v", err)
	}
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		header   string
		wantCode int
	}{
		{
			name:     "missing header",
			token:    "secret",
			header:   "",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong scheme",
			token:    "secret",
			header:   "Basic secret",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong token",
			token:    "secret",
			header:   "Bearer nope",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "matching access token",
			token:    "secret",
			header:   "Bearer secret",
			wantCode: http.StatusOK,
		},
		{
			name:     "no token configured and no jwks",
			token:    "",
			header:   "Bearer anything",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &App{AccessToken: tt.token}
			rec := runAuth(t, app, tt.header)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
