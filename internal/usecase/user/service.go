package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board/internal/config"
	"job-board/internal/domain/event"
	"job-board/internal/domain/notification"
	domainUser "job-board/internal/domain/user"
	"job-board/internal/logger"
	appErrors "job-board/pkg/errors"
	"job-board/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer is satisfied by *utils.TokenIssuer.
type TokenIssuer interface {
	Issue(subject utils.Subject, purpose utils.TokenPurpose, ttl time.Duration) (string, time.Time, error)
	Verify(token string, purpose utils.TokenPurpose) (*utils.Claims, error)
	GenerateTokenPair(subject utils.Subject, accessTTL, refreshTTL time.Duration) (*utils.TokenPair, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) bool
}

// Service implements the registration, verification, login and reset use cases
type Service struct {
	userRepo  domainUser.Repository
	tokens    TokenIssuer
	hasher    PasswordHasher
	notifier  notification.Notifier
	publisher event.Publisher
	config    *config.Config

	now           func() time.Time
	newVerifyCode func() (string, error)
	newResetToken func() (string, error)
}

type Option func(*Service)

// WithClock replaces time.Now, used by tests to move past expiries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublisher(p event.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	notifier notification.Notifier,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo:      userRepo,
		tokens:        tokens,
		hasher:        hasher,
		notifier:      notifier,
		publisher:     event.NoopPublisher{},
		config:        cfg,
		now:           time.Now,
		newVerifyCode: utils.GenerateVerificationCode,
		newResetToken: utils.GenerateResetToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	req.Username = utils.SanitizeString(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	if err := utils.ValidateStruct(req); err != nil {
		if utils.IsRequiredFailure(err) {
			return nil, appErrors.NewAppError(appErrors.CodeValidation, "All fields are required", err)
		}
		return nil, appErrors.NewAppError(appErrors.CodeValidation, utils.ValidationMessage(err), err)
	}

	if s.config.Auth.StrictPasswords {
		if err := utils.ValidatePassword(req.Password); err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), nil)
		}
	}

	// Courtesy checks; the store indexes are authoritative.
	owner, err := s.userRepo.GetVerifiedByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if owner != nil {
		logger.Warn("Registration attempt with taken username",
			zap.String("username", req.Username),
			zap.String("event", "registration_failed_duplicate_username"),
		)
		return nil, appErrors.ErrUsernameTaken
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil && existing.IsVerified {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrEmailTaken
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInternal, "Failed to process password", err)
	}

	code, err := s.newVerifyCode()
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInternal, "Failed to generate verification code", err)
	}
	expiry := s.now().Add(s.config.Auth.VerifyCodeTTL())

	var user *domainUser.User
	if existing != nil {
		user = existing
		user.Username = req.Username
		user.PasswordHash = hashedPassword
		user.Role = domainUser.Role(req.Role)
		user.VerifyCode = code
		user.VerifyCodeExpiry = &expiry
		if err := s.userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, domainUser.ErrStaleWrite) {
				logger.Warn("Account verified during re-registration",
					zap.String("email", req.Email),
					zap.String("event", "registration_failed_duplicate_email"),
				)
				return nil, appErrors.ErrEmailTaken
			}
			return nil, err
		}
	} else {
		user = &domainUser.User{
			Username:         req.Username,
			Email:            req.Email,
			PasswordHash:     hashedPassword,
			Role:             domainUser.Role(req.Role),
			VerifyCode:       code,
			VerifyCodeExpiry: &expiry,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	token, tokenExpiry, err := s.tokens.Issue(utils.Subject{UserID: user.ID}, utils.PurposeActivation, s.config.JWT.ActivationTTL())
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeTokenGeneration, "Something went wrong while generating the activation token", err)
	}

	err = s.notifier.Send(ctx, notification.Message{
		To:       user.Email,
		Subject:  "Activate your account",
		Template: notification.TemplateActivation,
		Data: map[string]any{
			"Name":           user.Username,
			"ActivationCode": code,
		},
	})
	if err != nil {
		logger.Error("Failed to send activation email",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "activation_email_failed"),
			zap.Error(err),
		)
		return nil, appErrors.NewAppError(appErrors.CodeNotification, "Failed to send the activation email", err)
	}

	logger.Info("Verification code sent",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.Bool("re_registration", existing != nil),
		zap.String("event", "user_registered"),
	)
	s.publish(ctx, event.New(event.UserRegistered, user.ID, user.ID, nil))

	return &RegisterResult{ActivationToken: token, ExpiresAt: tokenExpiry}, nil
}

func (s *Service) Activate(ctx context.Context, req *ActivateRequest) error {
	req.ActivationCode = strings.TrimSpace(req.ActivationCode)
	if req.ActivationCode == "" {
		return appErrors.ErrActivationCodeRequired
	}
	if req.Token == "" {
		return appErrors.ErrActivationTokenRequired
	}

	claims, err := s.tokens.Verify(req.Token, utils.PurposeActivation)
	if err != nil {
		logger.Warn("Activation attempt with invalid token",
			zap.String("event", "activation_failed_invalid_token"),
			zap.Error(err),
		)
		return appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return appErrors.ErrAlreadyVerified
	}

	if subtle.ConstantTimeCompare([]byte(user.VerifyCode), []byte(req.ActivationCode)) != 1 {
		logger.Warn("Activation attempt with wrong code",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "activation_failed_invalid_code"),
		)
		return appErrors.ErrInvalidActivationCode
	}

	now := s.now()
	if user.VerifyCodeExpired(now) {
		return appErrors.ErrActivationCodeExpired
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID, req.ActivationCode, now); err != nil {
		if errors.Is(err, domainUser.ErrStaleWrite) {
			// Consumed or replaced by a concurrent request.
			return appErrors.ErrInvalidActivationCode
		}
		return err
	}

	logger.Info("User verified successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "user_verified"),
	)
	s.publish(ctx, event.New(event.UserActivated, user.ID, user.ID, nil))

	return nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, appErrors.ErrCredentialsRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
		}
		return nil, err
	}

	if !user.IsVerified {
		logger.Warn("Login attempt for unverified user",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_unverified_user"),
		)
		return nil, appErrors.ErrUserNotVerified
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	tokens, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("event", "login_success"),
	)

	return &AuthResult{Profile: ToProfileResponse(user), Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, appErrors.ErrUnauthorized
	}

	claims, err := s.tokens.Verify(refreshToken, utils.PurposeRefresh)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, appErrors.ErrUserNotVerified
	}

	tokens, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	logger.Info("Token pair refreshed",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "token_refreshed"),
	)

	return &AuthResult{Profile: ToProfileResponse(user), Tokens: tokens}, nil
}

// ForgotPassword never reports whether the email is registered.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_requested_non_existent_email"),
			)
			return nil
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	token, err := s.newResetToken()
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeTokenGeneration, "Failed to generate reset token", err)
	}
	expiresAt := s.now().Add(s.config.Auth.ResetTokenTTL())

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	err = s.notifier.Send(ctx, notification.Message{
		To:       user.Email,
		Subject:  "Forgot Password",
		Template: notification.TemplateForgotPassword,
		Data: map[string]any{
			"Name":      user.Username,
			"ResetLink": s.config.Auth.ResetURL + "/" + token,
		},
	})
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeNotification, "Failed to send the reset email", err)
	}

	logger.Info("Password reset token generated",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_token_generated"),
	)

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, req *ResetPasswordRequest) error {
	now := s.now()

	user, err := s.userRepo.GetByResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.ErrResetLinkInvalid
		}
		return err
	}

	if req.Password == "" {
		return appErrors.ErrPasswordRequired
	}
	if s.config.Auth.StrictPasswords {
		if err := utils.ValidatePassword(req.Password); err != nil {
			return appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), nil)
		}
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeInternal, "Failed to process password", err)
	}

	if err := s.userRepo.CompleteReset(ctx, user.ID, token, hashedPassword, now); err != nil {
		if errors.Is(err, domainUser.ErrStaleWrite) {
			return appErrors.ErrResetLinkInvalid
		}
		return err
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) issuePair(user *domainUser.User) (*utils.TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(
		utils.Subject{UserID: user.ID, Email: user.Email, Role: string(user.Role)},
		s.config.JWT.AccessTTL(),
		s.config.JWT.RefreshTTL(),
	)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeTokenGeneration,
			"Something went wrong while generating refresh and access token", err)
	}
	return pair, nil
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", string(evt.Type)),
			zap.String("event", "event_publish_failed"),
			zap.Error(err),
		)
	}
}
