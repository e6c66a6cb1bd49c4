package auth

import (
	"context"
	"log/slog"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/validation"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	// GetByEmail matches case-insensitively and returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies the password and issues a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	dto.Normalize()
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("Failed to authenticate", err)
	}
	if u == nil {
		s.logger.Info("login rejected: unknown email", "email", dto.Email)
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Info("login rejected: wrong password", "user_id", u.ID)
		return nil, errors.ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Info("login rejected: inactive account", "user_id", u.ID)
		return nil, errors.ErrUserInactive
	}

	tokens, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResponse{
		AuthTokens: *tokens,
		User:       userInfoFrom(u),
		Message:    "Login successful",
	}, nil
}

// Refresh trades a refresh token for a new pair. The account is re-read so
// a deactivation or role change takes effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, dto RefreshTokenDTO) (*AuthTokens, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Authenticate resolves a bearer access token to the current identity.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *Service) activeUser(ctx context.Context, id int64) (*userDatamodel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load user", err)
	}
	if u == nil {
		return nil, errors.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, errors.ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(u *userDatamodel.User) (*AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue token", err)
	}
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func tokenError(err error) *errors.AppError {
	if err == errTokenExpired {
		return errors.ErrTokenExpired
	}
	return errors.ErrInvalidToken
}
