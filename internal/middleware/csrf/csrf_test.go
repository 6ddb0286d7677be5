package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{AuthCookie: "accessToken"}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/cart", ok)
	e.POST("/cart/add", ok)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSafeMethodIssuesToken(t *testing.T) {
	e := newEcho()

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
}

func TestUnsafeMethod(t *testing.T) {
	e := newEcho()

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  int
	}{
		{
			name:  "anonymous",
			setup: func(r *http.Request) {},
			want:  http.StatusNoContent,
		},
		{
			name: "bearer",
			setup: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Bearer abc")
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
			},
			want: http.StatusNoContent,
		},
		{
			name: "cookie without token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
			},
			want: http.StatusForbidden,
		},
		{
			name: "cookie with mismatched token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "one"})
				r.Header.Set("X-CSRF-Token", "two")
			},
			want: http.StatusForbidden,
		},
		{
			name: "cookie with matching token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "same"})
				r.Header.Set("X-CSRF-Token", "same")
			},
			want: http.StatusNoContent,
		},
		{
			name: "foreign origin",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "same"})
				r.Header.Set("X-CSRF-Token", "same")
				r.Header.Set("Origin", "http://evil.example")
			},
			want: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
			tt.setup(req)
			assert.Equal(t, tt.want, serve(e, req).Code)
		})
	}
}
