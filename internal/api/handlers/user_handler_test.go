package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRequest(f *fixture, username string) (echo.Context, *httptest.ResponseRecorder) {
	form := url.Values{"username": {username}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/setup", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return f.newContext(req)
}

func rememberedUsername(rec *httptest.ResponseRecorder) (string, bool) {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == UsernameCookieName {
			return cookie.Value, true
		}
	}
	return "", false
}

func TestSetupRegistersAndRemembersUsername(t *testing.T) {
	f := newFixture()

	c, rec := setupRequest(f, "alice")
	require.NoError(t, f.user.Setup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","created":true}`, string(data))

	value, ok := rememberedUsername(rec)
	require.True(t, ok)
	assert.Equal(t, "alice", value)
}

func TestSetupResumesExistingUsername(t *testing.T) {
	f := newFixture("alice")

	c, rec := setupRequest(f, "alice")
	require.NoError(t, f.user.Setup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","created":false}`, string(data))
}

func TestSetupRejectsInvalidUsername(t *testing.T) {
	f := newFixture()

	for _, username := range []string{"ab", "bad name", "this_is_way_too_long_12345"} {
		c, rec := setupRequest(f, username)
		require.NoError(t, f.user.Setup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "username %q", username)

		resp := decodeResponse(t, rec)
		assert.Equal(t, "InputException", resp.ErrorType)
	}
	assert.Empty(t, f.users.users)
}

func TestExistsEndpoint(t *testing.T) {
	f := newFixture("alice")

	req := httptest.NewRequest(http.MethodGet, "/api/user/exists?username=alice", nil)
	c, rec := f.newContext(req)
	require.NoError(t, f.user.Exists(c))
	assert.JSONEq(t, `{"status":"success","data":{"exists":true}}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/user/exists?username=ghost", nil)
	c, rec = f.newContext(req)
	require.NoError(t, f.user.Exists(c))
	assert.JSONEq(t, `{"status":"success","data":{"exists":false}}`, rec.Body.String())
}

func TestLogoutClearsRememberedUsername(t *testing.T) {
	f := newFixture("alice")

	req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
	req.AddCookie(&http.Cookie{Name: UsernameCookieName, Value: "alice"})
	c, rec := f.newContext(req)
	require.NoError(t, f.user.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	value, ok := rememberedUsername(rec)
	require.True(t, ok)
	assert.Empty(t, value)

	// no server-side effect
	assert.Len(t, f.users.users, 1)
}
