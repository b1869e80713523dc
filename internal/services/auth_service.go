package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/common"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthOptions configures password hashing and token issuance.
type AuthOptions struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Claims are carried by the tokens AuthService issues. Subject is the user ID.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login, avatars and tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	files      *attachments.Manager
	events     EventPublisher
	log        logging.Logger
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	dummyHash  []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, files *attachments.Manager, events EventPublisher, log logging.Logger, opts AuthOptions) *AuthService {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ttl := opts.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)

	return &AuthService{
		userRepo:   userRepo,
		files:      files,
		events:     events,
		log:        log.With("service", "auth"),
		jwtSecret:  []byte(opts.JWTSecret),
		tokenTTL:   ttl,
		bcryptCost: cost,
		dummyHash:  dummy,
	}
}

// RegisterUser hashes the password and stores a new user. An email that is
// already registered fails with common.ErrDuplicate.
func (s *AuthService) RegisterUser(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Email = models.NormalizeEmail(in.Email)
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	email := in.Email
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, common.ErrDuplicate)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "id", user.ID, "role", user.Role)
	publish(ctx, s.events, s.log, EventUserRegistered, user)
	return user, nil
}

// LoginUser checks the credentials and returns the profile. Unknown emails
// and wrong passwords both fail with common.ErrInvalidCredentials.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		// Same bcrypt work as a wrong password.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// SetAvatar stores f as the user's avatar, replacing the previous one.
func (s *AuthService) SetAvatar(ctx context.Context, email string, f attachments.File) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ref, err := s.files.Store(ctx, attachments.KindAvatar, f)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateAvatar(ctx, user.ID, ref); err != nil {
		s.files.Delete(context.WithoutCancel(ctx), []string{ref})
		return nil, err
	}

	previous := user.AvatarURL
	user.AvatarURL = ref
	if previous != "" && previous != ref {
		s.files.Delete(ctx, []string{previous})
	}

	s.log.Info(ctx, "avatar updated", "id", user.ID)
	publish(ctx, s.events, s.log, EventUserAvatarUpdated, map[string]string{"id": user.ID, "avatarUrl": ref})
	return user, nil
}

// IssueToken signs an HS256 token for user. It returns the token and its
// expiry.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.tokenTTL)
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, expires, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
