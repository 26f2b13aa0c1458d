package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/repository"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.UserResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest, ip, userAgent string) (resp dto.LoginResponse, err error)
	Logout(ctx context.Context, sessionID int64) (err error)
	VerifyToken(ctx context.Context, rawToken string) (user domain.User, session domain.Session, err error)
	RefreshToken(ctx context.Context, rawToken string) (resp dto.LoginResponse, err error)
	ChangePassword(ctx context.Context, userID, currentSessionID int64, payload dto.ChangePasswordRequest) (err error)
	GetActiveSessions(ctx context.Context, userID int64) (resp []dto.SessionResponse, err error)
	RevokeSession(ctx context.Context, userID, sessionID int64) (err error)
	RevokeOtherSessions(ctx context.Context, userID, currentSessionID int64) (err error)
}

type AuthServiceImpl struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateNewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, config config.Config, kafkaProducer *kafka.Conn) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, sessionRepo: sessionRepo, config: config, kafkaProducer: kafkaProducer}
}

func (s *AuthServiceImpl) Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.UserResponse, err error) {
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" || payload.FirstName == "" {
		return resp, errs.ErrValidation
	}

	role := domain.Role(payload.Role)
	if payload.Role == "" {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		return resp, errs.ErrValidation
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}
	if existing.ID != 0 {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.config.BcryptCost)
	if err != nil {
		return resp, err
	}

	user := domain.User{
		ExternalID:     ulid.Make().String(),
		Email:          payload.Email,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		HashedPassword: string(hash),
		Role:           role,
		IsActive:       true,
	}

	id, err := s.userRepo.AddUser(ctx, user)
	if err != nil {
		return resp, err
	}

	created, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return resp, err
	}

	if err := publishEvent(s.kafkaProducer, "user_registered", dto.ToUserResponse(created)); err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
	}

	return dto.ToUserResponse(created), nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, payload dto.LoginRequest, ip, userAgent string) (resp dto.LoginResponse, err error) {
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		return resp, errs.ErrValidation
	}

	user, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	// Missing and inactive accounts answer exactly like a bad password.
	if user.ID == 0 || !user.IsActive {
		return resp, errs.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if user.Locked(now) {
		return resp, &errs.AccountLockedError{MinutesRemaining: minutesUntil(now, *user.LockedUntil)}
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		attempts := user.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if attempts >= s.config.LockoutThreshold {
			t := now.Add(time.Duration(s.config.LockoutMinutes) * time.Minute)
			lockedUntil = &t
		}
		if recErr := s.userRepo.RecordFailedLogin(ctx, user.ID, attempts, lockedUntil); recErr != nil {
			log.Error().Err(recErr).Str("component", "Login").Msg("")
		}
		if lockedUntil != nil {
			return resp, &errs.AccountLockedError{MinutesRemaining: s.config.LockoutMinutes}
		}
		return resp, errs.ErrInvalidCredentials
	}

	token, exp, err := utils.CreateJWTToken(user, s.config.JWTSecret, time.Duration(s.config.TokenExpiryHours)*time.Hour)
	if err != nil {
		return resp, err
	}

	session := domain.Session{
		UserID:    user.ID,
		TokenHash: utils.HashToken(token),
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: exp,
		IsActive:  true,
	}

	sessionID, err := s.sessionRepo.AddSessionForLogin(ctx, session)
	if err != nil {
		return resp, err
	}

	resp.User = dto.ToUserResponse(user)
	resp.Token = token
	resp.SessionID = sessionID
	resp.ExpiresAt = exp

	return resp, nil
}

// Logout deactivates exactly one session. Repeating it is harmless.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID int64) (err error) {
	return s.sessionRepo.DeactivateSession(ctx, sessionID)
}

// VerifyToken accepts a token iff its signature checks out, a session stores
// its hash, that session is active and unexpired, and the owning user is
// still active.
func (s *AuthServiceImpl) VerifyToken(ctx context.Context, rawToken string) (user domain.User, session domain.Session, err error) {
	claims, err := utils.ParseJWTToken(rawToken, s.config.JWTSecret)
	if err != nil {
		return user, session, errs.ErrUnauthorized
	}

	session, err = s.sessionRepo.GetSessionByTokenHash(ctx, utils.HashToken(rawToken))
	if err != nil {
		return
	}

	now := time.Now().UTC()
	if session.ID == 0 || session.UserID != claims.UserID || !session.Usable(now) {
		return user, session, errs.ErrUnauthorized
	}

	user, err = s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return
	}
	if user.ID == 0 || !user.IsActive {
		return user, session, errs.ErrUnauthorized
	}

	return user, session, nil
}

// RefreshToken mints a new token onto the same session row, so the session's
// identity and audit trail survive the refresh.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, rawToken string) (resp dto.LoginResponse, err error) {
	user, session, err := s.VerifyToken(ctx, rawToken)
	if err != nil {
		return
	}

	token, exp, err := utils.CreateJWTToken(user, s.config.JWTSecret, time.Duration(s.config.TokenExpiryHours)*time.Hour)
	if err != nil {
		return resp, err
	}

	err = s.sessionRepo.RotateSessionToken(ctx, session.ID, utils.HashToken(token), exp)
	if err != nil {
		return resp, err
	}

	resp.User = dto.ToUserResponse(user)
	resp.Token = token
	resp.SessionID = session.ID
	resp.ExpiresAt = exp

	return resp, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, currentSessionID int64, payload dto.ChangePasswordRequest) (err error) {
	if payload.NewPassword == "" {
		return errs.ErrValidation
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return
	}
	if user.ID == 0 || !user.IsActive {
		return errs.ErrUnauthorized
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.CurrentPassword))
	if err != nil {
		return errs.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), s.config.BcryptCost)
	if err != nil {
		return err
	}

	err = s.userRepo.UpdatePassword(ctx, userID, string(hash))
	if err != nil {
		return err
	}

	// Every other session is cut loose after a password change; only the one
	// that made the request stays valid.
	return s.sessionRepo.DeactivateOtherSessions(ctx, userID, currentSessionID)
}

func (s *AuthServiceImpl) GetActiveSessions(ctx context.Context, userID int64) (resp []dto.SessionResponse, err error) {
	sessions, err := s.sessionRepo.GetActiveSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		resp = append(resp, dto.ToSessionResponse(sess))
	}

	return resp, nil
}

func (s *AuthServiceImpl) RevokeSession(ctx context.Context, userID, sessionID int64) (err error) {
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return
	}
	if session.ID == 0 {
		return errs.ErrNotFound
	}
	if session.UserID != userID {
		return errs.ErrForbidden
	}

	return s.sessionRepo.DeactivateSession(ctx, sessionID)
}

func (s *AuthServiceImpl) RevokeOtherSessions(ctx context.Context, userID, currentSessionID int64) (err error) {
	return s.sessionRepo.DeactivateOtherSessions(ctx, userID, currentSessionID)
}

func minutesUntil(now, until time.Time) int {
	return int(math.Ceil(until.Sub(now).Minutes()))
}
