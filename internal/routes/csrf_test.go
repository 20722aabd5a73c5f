package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-web/testutil"
)

func TestCSRF_TokenIssuedOnFirstGet(t *testing.T) {
	router, _ := testutil.SetupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var csrf *http.Cookie
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "csrf_token" {
			csrf = cookie
		}
	}
	require.NotNil(t, csrf)
	assert.NotEmpty(t, csrf.Value)
	assert.True(t, csrf.HttpOnly)

	// ページ側にも同じトークンが埋め込まれる
	assert.Contains(t, resp.Body.String(), csrf.Value)
}

func TestCSRF_ExistingTokenIsNotRotated(t *testing.T) {
	router, _ := testutil.SetupTestRouter(t)
	csrf := testutil.GetCSRFToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(csrf)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	for _, cookie := range resp.Result().Cookies() {
		assert.NotEqual(t, "csrf_token", cookie.Name, "a valid token must be reused, not reissued")
	}
}

func TestCSRF_MismatchedTokenRejected(t *testing.T) {
	router, fakes := testutil.SetupTestRouter(t)
	csrf := testutil.GetCSRFToken(t, router)

	form := url.Values{"title": {"attacker"}}
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.AddCookie(csrf)
	req.Header.Set("X-CSRF-Token", "not-the-right-token")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid or missing CSRF token", body["error"])
	assert.Equal(t, 0, fakes.Tasks.Count())
}

func TestCSRF_FormFieldAccepted(t *testing.T) {
	router, fakes := testutil.SetupTestRouter(t)
	csrf := testutil.GetCSRFToken(t, router)

	// ヘッダーではなく隠しフォームフィールドでトークンを送る (非AJAX経路)
	form := url.Values{
		"title":      {"via form field"},
		"csrf_token": {csrf.Value},
	}
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrf)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, 1, fakes.Tasks.Count())
}

func TestCSRF_HTMLModeGets403Page(t *testing.T) {
	router, _ := testutil.SetupTestRouter(t)

	form := url.Values{"title": {"no token, no ajax"}}
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.NotContains(t, resp.Header().Get("Content-Type"), "application/json")
}
