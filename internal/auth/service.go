package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/logging"
	"github.com/fitflix/backend/internal/models"
	"github.com/fitflix/backend/internal/repositories"
)

// DefaultBcryptCost matches the work factor existing password hashes were created with.
const DefaultBcryptCost = 10

// maxPasswordBytes is the longest input bcrypt reads. Longer passwords are
// truncated, as existing hashes were produced by an implementation that did
// the same.
const maxPasswordBytes = 72

// Client-facing messages. Login uses a single message for unknown users and
// wrong passwords.
const (
	MsgCredentialsRequired = "Username and password are required."
	MsgUserExists          = "User already exists."
	MsgInvalidCredentials  = "Invalid credentials."
	MsgTokenNotProvided    = "Token not provided."
	MsgInvalidToken        = "Invalid token."
	MsgUserNotFound        = "User not found."
)

// Credentials is the username/password pair submitted to register or log in.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// Service implements registration, login and bearer token authentication.
type Service struct {
	users    repositories.UserRepository
	tokens   *TokenIssuer
	cost     int
	validate *validator.Validate
}

// NewService constructs a Service. A cost outside bcrypt's range falls back to
// DefaultBcryptCost.
func NewService(users repositories.UserRepository, tokens *TokenIssuer, cost int) *Service {
	if users == nil {
		panic("auth: user repository must not be nil")
	}
	if tokens == nil {
		panic("auth: token issuer must not be nil")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		cost:     cost,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register hashes the password and stores a new user with no purchases.
func (s *Service) Register(ctx context.Context, creds Credentials) (int64, error) {
	if err := s.validate.Struct(creds); err != nil {
		return 0, apperr.Validation(MsgCredentialsRequired)
	}

	ctx, span := logging.StartSpan(ctx, "auth.register")
	defer span.End()

	hashed, err := bcrypt.GenerateFromPassword(passwordBytes(creds.Password), s.cost)
	if err != nil {
		return 0, apperr.Internal("Server error during registration.", err)
	}

	id, err := s.users.Insert(ctx, models.User{
		Username:     creds.Username,
		PasswordHash: string(hashed),
		Purchases:    models.PurchaseSet{},
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return 0, apperr.Conflict(MsgUserExists)
		}
		return 0, apperr.Internal("Server error during registration.", err)
	}

	logging.FromContext(ctx).Info("user registered", "userId", id)
	return id, nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := s.validate.Struct(creds); err != nil {
		return LoginResult{}, apperr.Validation(MsgCredentialsRequired)
	}

	ctx, span := logging.StartSpan(ctx, "auth.login")
	defer span.End()
	logger := logging.FromContext(ctx)

	user, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("login unknown user")
			return LoginResult{}, apperr.Auth(MsgInvalidCredentials)
		}
		return LoginResult{}, apperr.Internal("Server error during login.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn("login password mismatch", "userId", user.ID)
			return LoginResult{}, apperr.Auth(MsgInvalidCredentials)
		}
		return LoginResult{}, apperr.Internal("Server error during login.", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return LoginResult{}, apperr.Internal("Server error during login.", err)
	}

	return LoginResult{UserID: user.ID, Token: token.Token, ExpiresAt: token.ExpiresAt}, nil
}

// Authenticate resolves the Authorization header value into an identity. The
// token is the second space-separated field of the header.
func (s *Service) Authenticate(ctx context.Context, authorization string) (models.Identity, error) {
	token := bearerToken(authorization)
	if token == "" {
		return models.Identity{}, &apperr.Error{Kind: apperr.KindAuth, Message: MsgTokenNotProvided, Status: http.StatusForbidden}
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, &apperr.Error{Kind: apperr.KindAuth, Message: MsgInvalidToken, Err: err}
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Identity{}, apperr.NotFound(MsgUserNotFound)
		}
		return models.Identity{}, apperr.Internal("Authentication error.", err)
	}

	return models.Identity{ID: user.ID, Username: user.Username, Purchases: user.Purchases}, nil
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
