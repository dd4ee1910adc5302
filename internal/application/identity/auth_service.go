package identity

import (
	"context"
	"errors"
	"time"

	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles authentication
type AuthService struct {
	userRepo     identity.UserRepository
	tenantRepo   identity.TenantRepository
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	maxAttempts  int
	lockDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	maxAttempts int,
	lockDuration time.Duration,
) *AuthService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockDuration <= 0 {
		lockDuration = 15 * time.Minute
	}
	return &AuthService{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		jwtService:   jwtService,
		blacklist:    blacklist,
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
	}
}

// Login authenticates a user and issues an access token. A missing
// tenant code routes the attempt to platform admin accounts. Lookup
// failures and password mismatches both report INVALID_CREDENTIALS.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error) {
	user, err := s.findAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked or deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordLoginFailure(s.maxAttempts, s.lockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess(clientIP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role.String(),
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// Logout revokes the presented token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// LogoutAll revokes every outstanding token for a user, for example
// after a password change on another device
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetAccessTokenExpiration())
}

func (s *AuthService) findAccount(ctx context.Context, req LoginRequest) (*identity.User, error) {
	if req.TenantCode == "" {
		user, err := s.userRepo.FindPlatformAdminByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, errInvalidCredentials
			}
			return nil, err
		}
		return user, nil
	}

	tenant, err := s.tenantRepo.FindByCode(ctx, req.TenantCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "This workspace is suspended")
	}

	user, err := s.userRepo.FindByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}
