package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"digithai/internal/domain/entities"
	"digithai/internal/domain/services"
	"digithai/internal/ports/repositories"
	svc "digithai/internal/ports/services"
	"digithai/pkg/logger"
)

const (
	methodRegister      = "Register"
	methodLogin         = "Login"
	methodAuthenticate  = "Authenticate"
	methodRefreshTokens = "RefreshTokens"
	methodLogout        = "Logout"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgInvalidPassword     = "invalid password"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgLoginInactive       = "login attempt for inactive account"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgRevokedTokenAttempt = "attempt to use revoked token"
	msgExpiredTokenAttempt = "attempt to use expired token"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrFindingUser       = "error finding user by email"
	msgErrVerifyingPassword = "error verifying password"
	msgErrGenerateTokens    = "failed to generate tokens"
	msgErrFindingToken      = "failed to find refresh token"
	msgErrRevokingToken     = "failed to revoke refresh token"
	msgErrStoreRefreshToken = "failed to store refresh token"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingPassword = "validating password"
	errCtxCheckingUser       = "checking existing user"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxGeneratingTokens   = "generating tokens"
	errCtxFindingToken       = "finding refresh token"
	errCtxRevokingToken      = "revoking token"
	errCtxStoringToken       = "storing refresh token"
)

var (
	emailRegexp     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegexp = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitRegexp  = regexp.MustCompile(`[0-9]`)
)

// AuthUseCase реализует регистрацию и аутентификацию пользователей.
type AuthUseCase struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Register создает нового пользователя с указанными учетными данными.
func (a *AuthUseCase) Register(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error) {
	email = entities.NormalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if err := validatePassword(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errorsIsUserNotFound(err) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, entities.ErrUserAlreadyExists
	}

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user, err := a.userRepo.Create(ctx, &entities.User{
		EmailAddress: email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", user.ID))
	return user, nil
}

// Authenticate проверяет учетные данные и возвращает пользователя.
// Используется и JSON API, и веб-формой входа.
func (a *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	email = entities.NormalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errorsIsUserNotFound(err) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, entities.ErrInvalidCredentials
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgInvalidPasswordAuth)
		return nil, entities.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Debug(ctx, msgLoginInactive)
		return nil, entities.ErrUserInactive
	}

	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов для JSON API.
func (a *AuthUseCase) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin))

	user, err := a.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	pair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return pair, nil
}

// RefreshTokens обменивает действующий refresh токен на новую пару,
// отзывая старый токен.
func (a *AuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))
	log.Debug(ctx, msgRefreshingTokens)

	stored, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errorsIsTokenNotFound(err) {
			return nil, services.ErrInvalidRefreshToken
		}
		log.Error(ctx, msgErrFindingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingToken, err)
	}

	if stored.IsRevoked() {
		log.Warn(ctx, msgRevokedTokenAttempt, zap.String("userID", stored.UserID))
		return nil, services.ErrRevokedRefreshToken
	}
	if stored.IsExpired() {
		log.Debug(ctx, msgExpiredTokenAttempt)
		return nil, services.ErrInvalidRefreshToken
	}

	user, err := a.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	pair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.String("userID", user.ID))
	return pair, nil
}

// Logout отзывает refresh токен пользователя.
func (a *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errorsIsTokenNotFound(err) {
			return services.ErrInvalidRefreshToken
		}
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

func (a *AuthUseCase) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	accessToken, expiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.EmailAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	refreshToken, refreshExpiresAt, err := a.tokenSvc.GenerateRefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	if _, err := a.tokenRepo.StoreRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxStoringToken, err)
	}

	return &services.TokenPair{
		UserID:       user.ID,
		EmailAddress: user.EmailAddress,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func validateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}
	if !hasLetterRegexp.MatchString(password) || !hasDigitRegexp.MatchString(password) {
		return entities.ErrPasswordTooWeak
	}
	return nil
}

func errorsIsUserNotFound(err error) bool {
	return errors.Is(err, entities.ErrUserNotFound)
}

func errorsIsTokenNotFound(err error) bool {
	return errors.Is(err, entities.ErrTokenNotFound)
}
