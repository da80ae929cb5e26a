package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSecretKey(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr string
	}{
		{name: "host", baseURL: "https://Portal.Example.edu/thesis", want: "thesistrack/portal.example.edu/session"},
		{name: "host with port", baseURL: "http://127.0.0.1:8080", want: "thesistrack/127.0.0.1_8080/session"},
		{name: "no host", baseURL: "/relative", wantErr: "host is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SessionSecretKey(tt.baseURL)
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

func TestCredentialsSaveAndLoad(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	credentials := NewCredentials(store, "THESISTRACK_SESSID")

	store.EXPECT().Put(mockAnyContext(), "thesistrack/127.0.0.1_8080/session", "token-1").Return(nil).Once()
	store.EXPECT().Get(mockAnyContext(), "thesistrack/127.0.0.1_8080/session").Return("token-1\n", nil).Once()

	require.NoError(t, credentials.Save(context.Background(), "http://127.0.0.1:8080", domain.SessionHandle{Token: "token-1"}))

	handle, err := credentials.Load(context.Background(), "http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionHandle{CookieName: "THESISTRACK_SESSID", Token: "token-1"}, handle)
}

func TestCredentialsSaveRejectsEmptyToken(t *testing.T) {
	credentials := NewCredentials(mocks.NewMockSecretStore(t), "THESISTRACK_SESSID")

	err := credentials.Save(context.Background(), "http://127.0.0.1:8080", domain.SessionHandle{})
	require.Error(t, err)
}

func TestCredentialsLoadMissing(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	credentials := NewCredentials(store, "THESISTRACK_SESSID")

	store.EXPECT().Get(mockAnyContext(), "thesistrack/portal.example.edu/session").
		Return("", fmt.Errorf("file secret: %w", domain.ErrSecretNotFound)).Once()

	_, err := credentials.Load(context.Background(), "https://portal.example.edu")
	require.ErrorIs(t, err, domain.ErrNoCredential)
}

func TestCredentialsLoadBackendFailure(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	credentials := NewCredentials(store, "THESISTRACK_SESSID")

	store.EXPECT().Get(mockAnyContext(), "thesistrack/portal.example.edu/session").Return("", errors.New("gpg locked")).Once()

	_, err := credentials.Load(context.Background(), "https://portal.example.edu")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoCredential)
	assert.Contains(t, err.Error(), "load session credential")
}

func TestCredentialsForget(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	credentials := NewCredentials(store, "THESISTRACK_SESSID")

	store.EXPECT().Delete(mockAnyContext(), "thesistrack/portal.example.edu/session").Return(nil).Once()

	require.NoError(t, credentials.Forget(context.Background(), "https://portal.example.edu"))
}
