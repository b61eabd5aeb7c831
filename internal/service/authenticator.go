package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Outcome is the verdict of an authentication attempt.
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeAuthenticated
	OutcomeUnreachable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "rejected"
	}
}

// Errors explaining an unreachable outcome.
var (
	ErrUpstreamStatus    = errors.New("auth endpoint answered with an error status")
	ErrUpstreamTransport = errors.New("auth endpoint could not be reached")
)

// Principal is the user an Authenticator vouched for.
type Principal struct {
	Username string
	Name     string
	Role     model.RoleName
}

// Authenticator checks a username and password. The error is set only for OutcomeUnreachable.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Principal, Outcome, error)
}

// maxLegacyBody bounds how much of the legacy response is scanned for the success marker.
const maxLegacyBody = 64 << 10

// LegacyFormAuthenticator posts the login form to an existing PHP-style endpoint.
// A 2xx answer counts as authenticated when the request was redirected or the body
// contains "authenticated"; any other 2xx, 401 or 403 is a rejection.
type LegacyFormAuthenticator struct {
	endpoint string
	client   *http.Client
	role     model.RoleName
}

func NewLegacyFormAuthenticator(endpoint string, timeout time.Duration, role model.RoleName) *LegacyFormAuthenticator {
	return &LegacyFormAuthenticator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		role:     role,
	}
}

func (a *LegacyFormAuthenticator) Authenticate(ctx context.Context, username, password string) (Principal, Outcome, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Principal{}, OutcomeUnreachable, fmt.Errorf("%w: %w", ErrUpstreamTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return Principal{}, OutcomeUnreachable, fmt.Errorf("%w: %w", ErrUpstreamTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Principal{}, OutcomeRejected, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Principal{}, OutcomeUnreachable, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLegacyBody))
	if err != nil {
		return Principal{}, OutcomeUnreachable, fmt.Errorf("%w: read body: %w", ErrUpstreamTransport, err)
	}
	redirected := resp.Request != nil && resp.Request.URL.String() != req.URL.String()
	if !redirected && !strings.Contains(string(body), "authenticated") {
		return Principal{}, OutcomeRejected, nil
	}
	return Principal{Username: username, Name: username, Role: a.role}, OutcomeAuthenticated, nil
}

// AdminLookup finds local admin accounts.
type AdminLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// LocalAuthenticator checks bcrypt hashes of the admins table.
type LocalAuthenticator struct {
	admins AdminLookup
}

func NewLocalAuthenticator(admins AdminLookup) *LocalAuthenticator {
	return &LocalAuthenticator{admins: admins}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, username, password string) (Principal, Outcome, error) {
	admin, err := a.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, OutcomeRejected, nil
		}
		return Principal{}, OutcomeUnreachable, fmt.Errorf("%w: %w", ErrUpstreamTransport, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return Principal{}, OutcomeRejected, nil
	}
	return Principal{Username: admin.Username, Name: admin.Name, Role: admin.Role}, OutcomeAuthenticated, nil
}
