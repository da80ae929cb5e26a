package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHandle = domain.SessionHandle{CookieName: "THESISTRACK_SESSID", Token: "signed-token"}

func newTestClient(server *httptest.Server) Client {
	return Client{
		API: Endpoints{
			BaseURL:       server.URL,
			TTLPath:       "/ajax/session_ttl.php",
			KeepAlivePath: "/ajax/keep_alive.php",
			LogoutPath:    "/logout.php",
			LoginPath:     "/login.php",
			CookieName:    "THESISTRACK_SESSID",
		},
		HTTPClient: server.Client(),
	}
}

func TestRemainingTTLParsesSuccessResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ajax/session_ttl.php", r.URL.Path)
		cookie, err := r.Cookie("THESISTRACK_SESSID")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", cookie.Value)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"remaining_seconds":1800}`))
	}))
	t.Cleanup(server.Close)

	ttl, err := newTestClient(server).RemainingTTL(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, 1800*time.Second, ttl.Remaining)
}

func TestRemainingTTLResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantTTL   time.Duration
		wantErr   string
		malformed bool
	}{
		{name: "unauthorized is zero ttl", status: http.StatusUnauthorized, body: `{"success":false,"remaining_seconds":0,"message":"Session expired"}`},
		{name: "negative clamps to zero", status: http.StatusOK, body: `{"success":true,"remaining_seconds":-4}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: "status 500"},
		{name: "not json", status: http.StatusOK, body: `<html>login</html>`, wantErr: "decode session ttl response", malformed: true},
		{name: "missing remaining", status: http.StatusOK, body: `{"success":true}`, wantErr: "session ttl response", malformed: true},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"remaining_seconds":10}`, wantErr: "session ttl response", malformed: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			ttl, err := newTestClient(server).RemainingTTL(context.Background(), testHandle)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.malformed {
					assert.ErrorIs(t, err, domain.ErrMalformedResponse)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, ttl.Remaining)
			assert.True(t, ttl.Expired())
		})
	}
}

func TestRemainingTTLHugeValueIsNotExpired(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"remaining_seconds":10000000000}`))
	}))
	t.Cleanup(server.Close)

	ttl, err := newTestClient(server).RemainingTTL(context.Background(), testHandle)
	require.NoError(t, err)
	assert.False(t, ttl.Expired())
	assert.Positive(t, ttl.Remaining)
}

func TestRemainingTTLTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"remaining_seconds":1800}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(server)
	client.RequestTimeout = 20 * time.Millisecond

	_, err := client.RemainingTTL(context.Background(), testHandle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query session ttl")
}

func TestRemainingTTLRequiresCredential(t *testing.T) {
	t.Parallel()

	client := Client{API: Endpoints{BaseURL: "http://127.0.0.1:1", TTLPath: "/ttl"}}
	_, err := client.RemainingTTL(context.Background(), domain.SessionHandle{})
	require.ErrorIs(t, err, domain.ErrNoCredential)
}

func TestExtendResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      string
		unauthorized bool
	}{
		{name: "extended", status: http.StatusOK, body: `{"success":true,"remaining_seconds":1800}`},
		{name: "rejected", status: http.StatusUnauthorized, body: `{"success":false,"message":"Session expired"}`, wantErr: "send keep-alive", unauthorized: true},
		{name: "bad gateway", status: http.StatusBadGateway, body: ``, wantErr: "status 502"},
		{name: "success false", status: http.StatusOK, body: `{"success":false}`, wantErr: "keep-alive response"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ajax/keep_alive.php", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			err := newTestClient(server).Extend(context.Background(), testHandle)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.unauthorized, errors.Is(err, domain.ErrUnauthorized))
		})
	}
}

func TestLogoutToleratesDeadSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logout.php", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	require.NoError(t, newTestClient(server).Logout(context.Background(), testHandle))
}

func TestLogoutReportsServerFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	err := newTestClient(server).Logout(context.Background(), testHandle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestLoginReturnsSessionCookie(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2021-00042", r.Form.Get("user_id"))
		assert.Equal(t, "student", r.Form.Get("role"))

		http.SetCookie(w, &http.Cookie{Name: "THESISTRACK_SESSID", Value: "issued-token", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"remaining_seconds":1800}`))
	}))
	t.Cleanup(server.Close)

	handle, err := newTestClient(server).Login(context.Background(), " 2021-00042 ", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionHandle{CookieName: "THESISTRACK_SESSID", Token: "issued-token"}, handle)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "rejected with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"success":false,"message":"unknown role"}`))
			},
			wantErr: "status 400: unknown role",
		},
		{
			name: "missing cookie",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":true}`))
			},
			wantErr: "missing THESISTRACK_SESSID cookie",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			_, err := newTestClient(server).Login(context.Background(), "adv-7", domain.RoleAdvisor)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildAPIURLValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
		wantErr string
	}{
		{name: "joins path", baseURL: "https://portal.example.edu/thesis/", path: "ajax/session_ttl.php", want: "https://portal.example.edu/thesis/ajax/session_ttl.php"},
		{name: "absolute path", baseURL: "https://portal.example.edu/thesis/", path: "/logout.php", want: "https://portal.example.edu/logout.php"},
		{name: "missing base", path: "/x", wantErr: "base url is required"},
		{name: "bad scheme", baseURL: "ftp://portal", path: "/x", wantErr: "must use http or https"},
		{name: "missing host", baseURL: "http://", path: "/x", wantErr: "host is required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildAPIURL(tt.baseURL, tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
