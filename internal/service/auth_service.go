package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/ids"
	"vuelas/api/internal/models"
	"vuelas/api/internal/repository"
	"vuelas/api/internal/security"
)

const minPasswordLength = 6

const (
	msgRegisterRequired   = "Email, Nombre y Contraseña son requeridos"
	msgPasswordTooShort   = "La contraseña debe tener al menos 6 caracteres"
	msgInvalidRole        = "El rol debe ser 'Admin' o 'Cliente'"
	msgEmailTaken         = "El email ya está registrado"
	msgLoginRequired      = "Email y contraseña son requeridos"
	msgBadCredentials     = "Email o contraseña incorrectos"
	msgUnauthorized       = "No autorizado"
	msgUserNotFound       = "Usuario no encontrado"
	msgRegisterFailed     = "Error al registrar el usuario"
	msgLoginFailed        = "Error al iniciar sesión"
	msgCurrentUserFailure = "Error al obtener información del usuario"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens *security.TokenService
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, tokens *security.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Phone    *string
	Password string
	// Role is nil when the client omitted it.
	Role *string
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if isBlank(input.Email) || isBlank(input.Name) || isBlank(input.Password) {
		return AuthResult{}, apperr.Invalid(msgRegisterRequired)
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return AuthResult{}, apperr.Invalid(msgPasswordTooShort)
	}

	role := models.RoleCliente
	if input.Role != nil {
		role = models.Role(strings.TrimSpace(*input.Role))
	}
	if !role.Valid() {
		return AuthResult{}, apperr.Invalid(msgInvalidRole)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, apperr.Internal(err, msgRegisterFailed)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, apperr.Internal(err, msgRegisterFailed)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Email:        input.Email,
		Name:         input.Name,
		Phone:        input.Phone,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return AuthResult{}, apperr.Conflict(msgEmailTaken)
		}
		return AuthResult{}, apperr.Internal(err, msgRegisterFailed)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, apperr.Internal(err, msgRegisterFailed)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return AuthResult{Token: token, User: user}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login answers unknown emails and wrong passwords with the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if isBlank(input.Email) || isBlank(input.Password) {
		return AuthResult{}, apperr.Invalid(msgLoginRequired)
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperr.Unauthorized(msgBadCredentials)
		}
		return AuthResult{}, apperr.Internal(err, msgLoginFailed)
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, apperr.Unauthorized(msgBadCredentials)
	}

	if security.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, input.Password)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, apperr.Internal(err, msgLoginFailed)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return AuthResult{Token: token, User: user}, nil
}

// upgradeHash rewrites a legacy digest with the current parameters. Failures
// are logged and the old digest stays valid.
func (s *AuthService) upgradeHash(ctx context.Context, user models.User, password string) {
	digest, err := security.HashPassword(password)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("rehash password failed")
		return
	}
	user.PasswordHash = digest
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user.ID, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("store rehashed password failed")
	}
}

// CurrentUser resolves the user named by a validated token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, apperr.Unauthorized(msgUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound(msgUserNotFound)
		}
		return models.User{}, apperr.Internal(err, msgCurrentUserFailure)
	}
	return user, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
