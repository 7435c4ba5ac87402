package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/events"
	"github.com/luna/taskmanager/internal/hash"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/models"
	"github.com/luna/taskmanager/internal/principal"
	"github.com/luna/taskmanager/internal/repo"
	"github.com/luna/taskmanager/internal/token"
	"github.com/luna/taskmanager/internal/transport"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts passwords of up to 72 bytes.
	maxPasswordBytes  = 72
	maxUsernameLength = 50
	maxEmailLength    = 100
)

const (
	passwordsMismatchMessage = "Passwords do not match."
	passwordTooShortMessage  = "Password must be at least 8 characters long."
	passwordTooLongMessage   = "Password must be at most 72 bytes long."
	usernameInvalidMessage   = "Username cannot be blank. Should be of 50 characters max."
	emailInvalidMessage      = "Email must be a valid address of 100 characters max."
	usernameTakenMessage     = "Username is already taken."
	emailTakenMessage        = "Email is already registered."
)

type AuthService struct {
	Repo     *repo.GormRepo
	Resolver *principal.Resolver
	Codec    *token.Codec
	notifier
}

func NewAuthService(r *repo.GormRepo, resolver *principal.Resolver, codec *token.Codec, pub events.Publisher) *AuthService {
	return &AuthService{Repo: r, Resolver: resolver, Codec: codec, notifier: newNotifier(pub, nil)}
}

func validateRegistration(req transport.RegisterRequest) error {
	if req.Password != req.ConfirmPassword {
		return invalid(passwordsMismatchMessage)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return invalid(passwordTooShortMessage)
	}
	if len(req.Password) > maxPasswordBytes {
		return invalid(passwordTooLongMessage)
	}
	if strings.TrimSpace(req.Username) == "" || utf8.RuneCountInString(req.Username) > maxUsernameLength {
		return invalid(usernameInvalidMessage)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") || utf8.RuneCountInString(email) > maxEmailLength {
		return invalid(emailInvalidMessage)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateRegistration(req); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)

	taken, err := s.Repo.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, apperr.New(apperr.ErrDuplicate, usernameTakenMessage)
	}
	taken, err = s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperr.New(apperr.ErrDuplicate, emailTakenMessage)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: req.Username, Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.ErrDuplicate, usernameTakenMessage, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.UserRegistered, UserID: user.ID})
	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks the credentials and issues a bearer token for the
// username.
func (s *AuthService) Authenticate(ctx context.Context, req transport.AuthenticationRequest) (string, error) {
	a, err := s.Resolver.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return "", err
	}
	tkn, err := s.Codec.Issue(a.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tkn, nil
}
