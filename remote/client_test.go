package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/prefcenter"
)

const testToken = "f81d4fae-7dec-11d0-a765-00a0c91e6bf6"

func TestUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/news/user/"+testToken+"/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"email": "user@example.com",
			"lang": "en",
			"format": "html",
			"country": "us",
			"newsletters": ["firefox-tips", "mobile"],
			"created-date": "1/30/2013 12:46:05 PM"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	user, err := c.User(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, testToken, user.Token)
	assert.Equal(t, prefcenter.FormatHTML, user.Format)
	assert.Equal(t, []string{"firefox-tips", "mobile"}, user.Newsletters)
}

func TestUserBadToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status": "error", "code": 403, "desc": "invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.User(context.Background(), testToken)
	require.Error(t, err)

	assert.Equal(t, 403, prefcenter.RemoteStatusCode(err))
	assert.False(t, prefcenter.IsNetworkError(err))
}

func TestBackendUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.User(context.Background(), testToken)
	require.Error(t, err)

	assert.True(t, prefcenter.IsNetworkError(err))
	assert.Equal(t, 0, prefcenter.RemoteStatusCode(err))
}

func TestUpdateUserSendsOnlyChangedFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "fr", r.PostForm.Get("lang"))
		assert.False(t, r.PostForm.Has("format"))
		assert.False(t, r.PostForm.Has("country"))
		assert.False(t, r.PostForm.Has("newsletters"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.UpdateUser(context.Background(), testToken, prefcenter.UserUpdate{Lang: "fr"})
	assert.NoError(t, err)
}

func TestUpdateUserReplacesMembership(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "firefox-tips,mobile", r.PostForm.Get("newsletters"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.UpdateUser(context.Background(), testToken, prefcenter.UserUpdate{
		Newsletters: []string{"firefox-tips", "mobile"},
	})
	assert.NoError(t, err)
}

func TestUnsubscribeCarriesOptout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "Y", r.PostForm.Get("optout"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.Unsubscribe(context.Background(), testToken, "user@example.com", true)
	assert.NoError(t, err)
}

func TestConfirmReturnsRawStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "pending"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	status, err := c.Confirm(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}

func TestUnexpectedStatusBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "wat"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.SendRecoveryMessage(context.Background(), "user@example.com")
	require.Error(t, err)

	assert.Equal(t, prefcenter.ErrInternal, prefcenter.ErrorCode(err))
	assert.False(t, prefcenter.IsNetworkError(err))
	assert.Equal(t, 0, prefcenter.RemoteStatusCode(err))
}

func TestNewsletters(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news/newsletters/", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"newsletters": {
				"firefox-tips": {
					"title": "Firefox Tips",
					"description": "Tips and tricks",
					"languages": ["en", "fr"],
					"show": true,
					"order": 2
				}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	catalog, err := c.Newsletters(context.Background())
	require.NoError(t, err)

	n, ok := catalog["firefox-tips"]
	require.True(t, ok)
	assert.Equal(t, "firefox-tips", n.ID)
	assert.Equal(t, "Firefox Tips", n.Title)
	assert.True(t, n.Show)
	require.NotNil(t, n.Order)
	assert.Equal(t, 2, *n.Order)
}
