package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/storage"
)

type authServiceImpl struct {
	logger             zerolog.Logger
	users              storage.UserRepository
	sessions           storage.SessionRepository
	jwtIssuer          string
	jwtSigningKey      []byte
	jwtAccessTokenTTL  time.Duration
	jwtRefreshTokenTTL time.Duration
}

type AuthConfig struct {
	Issuer          string
	SigningKey      []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	store storage.Storage,
	cfg AuthConfig,
) AuthService {
	return &authServiceImpl{
		logger:             logger,
		users:              store.Users(),
		sessions:           store.Sessions(),
		jwtIssuer:          cfg.Issuer,
		jwtSigningKey:      cfg.SigningKey,
		jwtAccessTokenTTL:  cfg.AccessTokenTTL,
		jwtRefreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// accessClaims carries the profile fields a client needs to render the
// signed-in user without an extra request.
type accessClaims struct {
	UserID string  `json:"uid"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Image  *string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*LoginResult, error) {
	if len(params.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long",
			ErrInvalidInput, minPasswordLength)
	}

	createdAt := now()
	user := &models.User{
		Name:      strings.TrimSpace(params.Name),
		Email:     strings.TrimSpace(params.Email),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = &passwordHash

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	result, err := s.openSession(ctx, user, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.SessionID).
		Msg("registered user")
	return result, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(params.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", params.Email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("selected user")

	if user.Password == nil {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("user has no password set")
		return nil, ErrUserPasswordMismatch
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, *user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	affected, err := s.sessions.DeleteByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete sessions by user id")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int64("affected", affected).
		Msg("deleted sessions by user id")

	result, err := s.openSession(ctx, user, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.SessionID).
		Msg("logged in")
	return result, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error) {
	session, err := s.sessions.GetByRefreshToken(ctx, params.RefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select session by refresh token")
		return nil, err
	}

	if session.Fingerprint != params.Fingerprint {
		s.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		return nil, ErrFingerprintMismatch
	}

	if session.ExpiresAt.Before(now()) {
		s.logger.Error().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", session.UserID).
				Msg("session owner not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by id")
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	updatedAt := now()
	session.ExpiresAt = updatedAt.Add(s.jwtRefreshTokenTTL)
	session.UpdatedAt = updatedAt

	err = s.sessions.Update(ctx, session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to update session")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("updated session")

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}
	s.logger.Info().
		Str("user_id", session.UserID).
		Str("session_id", session.ID).
		Msg("refreshed session")

	return &LoginResult{
		User:                  user,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) ReissueAccessToken(ctx context.Context, identity models.Identity) (*LoginResult, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", identity.UserID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by id")
		return nil, err
	}

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(identity.SessionID, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", identity.SessionID).
		Msg("reissued access token")
	return &LoginResult{
		User:                 user,
		SessionID:            identity.SessionID,
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessTokenExpiresAt,
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	affected, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", affected).
		Msg("deleted sessions by user id")

	s.logger.Info().
		Str("user_id", userID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, params AuthenticateParams) (*models.Identity, error) {
	claims, err := s.parseAccessToken(params.AccessToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("session_id", claims.Subject).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		return nil, err
	}

	if session.UserID != claims.UserID {
		s.logger.Error().
			Str("session_id", session.ID).
			Msg("token subject does not match session owner")
		return nil, ErrInvalidToken
	}

	if session.Fingerprint != params.Fingerprint {
		s.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		return nil, ErrFingerprintMismatch
	}

	return &models.Identity{
		UserID:    claims.UserID,
		SessionID: session.ID,
		Name:      claims.Name,
		Email:     claims.Email,
		Image:     claims.Image,
	}, nil
}

func (s *authServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	affected, err := s.sessions.DeleteExpired(ctx, now())
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete expired sessions")
		return 0, err
	}

	s.logger.Info().
		Int64("affected", affected).
		Msg("purged expired sessions")
	return affected, nil
}

func (s *authServiceImpl) openSession(ctx context.Context, user *models.User, fingerprint string) (*LoginResult, error) {
	createdAt := now()
	session := &models.Session{
		UserID:      user.ID,
		Fingerprint: fingerprint,
		ExpiresAt:   createdAt.Add(s.jwtRefreshTokenTTL),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}
	session.ID = sessionUUID.String()

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	err = s.sessions.Create(ctx, session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	return &LoginResult{
		User:                  user,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) parseAccessToken(token string) (*accessClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&accessClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*accessClaims)
	if !ok || claims.Subject == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authServiceImpl) generateRefreshToken() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func (s *authServiceImpl) generateAccessToken(sessionID string, user *models.User) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Image:  user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.jwtIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
