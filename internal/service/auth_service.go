package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthUnavailable    = errors.New("authentication service unavailable")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Username    string         `json:"username"`
	Name        string         `json:"name,omitempty"`
	Role        model.RoleName `json:"role"`
	Permissions []string       `json:"permissions,omitempty"`
}

// AuthService handles login, JWT, and session management.
type AuthService struct {
	authenticator Authenticator
	sessions      SessionStore
	secret        []byte
	expiry        time.Duration
	n             notifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator Authenticator, sessions SessionStore, secret string, expiry time.Duration, sink notify.Sink, log zerolog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		secret:        []byte(secret),
		expiry:        expiry,
		n:             newNotifier(sink, log, "auth_service"),
	}
}

// Login authenticates the user and starts a session, replacing any previous one.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	principal, outcome, err := s.authenticator.Authenticate(ctx, username, password)
	switch outcome {
	case OutcomeAuthenticated:
	case OutcomeUnreachable:
		err = fmt.Errorf("%w: %w", ErrAuthUnavailable, err)
		if errors.Is(err, ErrUpstreamStatus) {
			s.n.failure(ctx, err, "Login failed. Please try again.")
		} else {
			s.n.failure(ctx, err, "Connection error. Please check your server.")
		}
		return nil, err
	default:
		s.n.failure(ctx, ErrInvalidCredentials, "Invalid username or password")
		return nil, ErrInvalidCredentials
	}

	if !principal.Role.Valid() {
		s.n.log.Warn().Str("username", principal.Username).Str("role", string(principal.Role)).Msg("unknown role, using viewer")
		principal.Role = model.RoleViewer
	}
	perms := principal.Role.Permissions()

	token, err := s.GenerateToken(ctx, principal, perms)
	if err != nil {
		s.n.failure(ctx, err, "Login failed. Please try again.")
		return nil, err
	}

	s.n.log.Info().Str("username", principal.Username).Str("role", string(principal.Role)).Msg("login")
	s.n.success(notify.WithActor(ctx, principal.Username), "Login successful!")
	return &model.LoginResponse{
		Token:       token,
		Username:    principal.Username,
		Role:        principal.Role,
		Permissions: perms,
		Navigate:    model.RouteDashboard,
	}, nil
}

// Signup is not offered; accounts are created by an administrator.
func (s *AuthService) Signup(ctx context.Context) {
	s.n.info(ctx, "Signup not yet implemented. Please contact administrator.")
}

// GenerateToken signs a JWT for the principal and registers it as the active session.
func (s *AuthService) GenerateToken(ctx context.Context, p Principal, perms []model.Permission) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Username:    p.Username,
		Name:        p.Name,
		Role:        p.Role,
		Permissions: model.PermissionStrings(perms),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	// Store session with same expiry as JWT.
	if err := s.sessions.Set(ctx, p.Username, jti, s.expiry); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token's JTI is the user's active session.
func (s *AuthService) ValidateSession(ctx context.Context, username, jti string) error {
	stored, err := s.sessions.Get(ctx, username)
	if err != nil {
		return err
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout ends the user's session.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if err := s.sessions.Delete(ctx, username); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.n.info(notify.WithActor(ctx, username), "Logged out")
	return nil
}
