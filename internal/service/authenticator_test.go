package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

func legacyServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		switch r.PostForm.Get("username") {
		case "redirect":
			http.Redirect(w, r, "/home.php", http.StatusSeeOther)
		case "marker":
			fmt.Fprint(w, `{"status":"authenticated"}`)
		case "plain":
			fmt.Fprint(w, "<form>try again</form>")
		case "denied":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/home.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "welcome")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLegacyFormAuthenticator(t *testing.T) {
	srv := legacyServer(t)
	auth := NewLegacyFormAuthenticator(srv.URL+"/login.php", 2*time.Second, model.RoleScheduler)

	tests := []struct {
		username string
		want     Outcome
		wantErr  error
	}{
		{"redirect", OutcomeAuthenticated, nil},
		{"marker", OutcomeAuthenticated, nil},
		{"plain", OutcomeRejected, nil},
		{"denied", OutcomeRejected, nil},
		{"broken", OutcomeUnreachable, ErrUpstreamStatus},
	}
	for _, tc := range tests {
		t.Run(tc.username, func(t *testing.T) {
			p, outcome, err := auth.Authenticate(context.Background(), tc.username, "secret")
			assert.Equal(t, tc.want, outcome, outcome.String())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if outcome == OutcomeAuthenticated {
				assert.Equal(t, tc.username, p.Username)
				assert.Equal(t, model.RoleScheduler, p.Role)
			}
		})
	}
}

func TestLegacyFormAuthenticator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	auth := NewLegacyFormAuthenticator(endpoint, time.Second, model.RoleScheduler)
	_, outcome, err := auth.Authenticate(context.Background(), "admin", "secret")
	assert.Equal(t, OutcomeUnreachable, outcome)
	assert.ErrorIs(t, err, ErrUpstreamTransport)
}

type stubAdmins map[string]*model.Admin

func (s stubAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if username == "db-down" {
		return nil, errors.New("connection refused")
	}
	a, ok := s[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func TestLocalAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewLocalAuthenticator(stubAdmins{
		"admin": {Username: "admin", Name: "Head Admin", PasswordHash: string(hash), Role: model.RoleAdministrator},
	})
	ctx := context.Background()

	p, outcome, err := auth.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, outcome)
	assert.Equal(t, Principal{Username: "admin", Name: "Head Admin", Role: model.RoleAdministrator}, p)

	_, outcome, _ = auth.Authenticate(ctx, "admin", "wrong")
	assert.Equal(t, OutcomeRejected, outcome)

	_, outcome, _ = auth.Authenticate(ctx, "nobody", "s3cret")
	assert.Equal(t, OutcomeRejected, outcome)

	_, outcome, err = auth.Authenticate(ctx, "db-down", "s3cret")
	assert.Equal(t, OutcomeUnreachable, outcome)
	assert.ErrorIs(t, err, ErrUpstreamTransport)
}
