package tokens

import (
	"context"
	"log/slog"
	"time"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/pkg/jwt"
	"vehicle-reservation/internal/pkg/keylock"
	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSignatureInvalid = errs.NewKind(errs.KindAuth, "token signature invalid")
	ErrExpired          = errs.NewKind(errs.KindAuth, "token expired")
	ErrUnknown          = errs.NewKind(errs.KindAuth, "refresh token unknown or already used")
	ErrUserDisabled     = errs.NewKind(errs.KindAuth, "token owner is no longer active")
	ErrIssue            = errs.NewKind(errs.KindDependency, "failed to issue token")

	// ErrTokenReused marks ErrUnknown when a rotated token was presented again.
	ErrTokenReused = errs.New("refresh token reuse detected")

	errReuseDetected = errs.New("rotated refresh token presented")
)

// Rotation outcomes reported to Metrics.
const (
	OutcomeRotated  = "rotated"
	OutcomeReused   = "reused"
	OutcomeRejected = "rejected"
)

type Metrics interface {
	TokenRotation(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) TokenRotation(string) {}

type Principal struct {
	UserID    uuid.UUID
	Role      user.Role
	ExpiresAt time.Time
}

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type RefreshToken struct {
	Token     string
	ExpiresAt time.Time
	FamilyID  uuid.UUID
}

type TokenPair struct {
	UserID  uuid.UUID
	Access  AccessToken
	Refresh RefreshToken
}

type Service struct {
	jwt     *jwt.Service
	uow     shared.UnitOfWork
	locks   *keylock.Map[uuid.UUID]
	clock   clock.Clock
	metrics Metrics
	logger  *slog.Logger
}

func NewService(jwtService *jwt.Service, uow shared.UnitOfWork, clk clock.Clock, metrics Metrics, logger *slog.Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		jwt:     jwtService,
		uow:     uow,
		locks:   keylock.New[uuid.UUID](),
		clock:   clk,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Service) IssueAccess(userID uuid.UUID, role user.Role) (AccessToken, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(userID, role.String())
	if err != nil {
		return AccessToken{}, errs.Attach(ErrIssue, err)
	}
	return AccessToken{Token: token, ExpiresAt: expiresAt}, nil
}

// IssueRefresh starts a new token family for userID.
func (s *Service) IssueRefresh(ctx context.Context, userID uuid.UUID) (RefreshToken, error) {
	record := auth.NewRefreshToken(userID, uuid.New(), s.clock.Now(), s.jwt.RefreshTokenTTL())

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.RefreshTokens().Create(ctx, record)
	})
	if err != nil {
		return RefreshToken{}, errs.Attach(ErrIssue, err)
	}

	return s.signRefresh(record)
}

// IssuePair issues an access token and a refresh token in a new family.
func (s *Service) IssuePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	access, err := s.IssueAccess(u.ID(), u.Role())
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(ctx, u.ID())
	if err != nil {
		return nil, err
	}
	return &TokenPair{UserID: u.ID(), Access: access, Refresh: refresh}, nil
}

// Rotate exchanges a refresh token for a new pair in the same family. A token
// rotates at most once; presenting it again revokes its whole family.
func (s *Service) Rotate(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateToken(raw, jwt.TokenTypeRefresh)
	if err != nil {
		s.metrics.TokenRotation(OutcomeRejected)
		return nil, mapJWTError(err)
	}
	tokenID, err := claims.TokenID()
	if err != nil {
		s.metrics.TokenRotation(OutcomeRejected)
		return nil, errs.Attach(ErrSignatureInvalid, err)
	}

	unlock := s.locks.Lock(tokenID)
	defer unlock()

	var pair *TokenPair
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		record, err := tx.RefreshTokens().FindByID(ctx, tokenID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrUnknown
			}
			return errs.Attach(errs.ErrDependency, err)
		}
		if record.UserID() != claims.UserID || record.FamilyID() != claims.FamilyID {
			return ErrSignatureInvalid
		}

		now := s.clock.Now()
		if record.IsExpired(now) {
			return ErrExpired
		}
		if record.IsRotated() {
			return errReuseDetected
		}

		owner, err := tx.Users().FindByID(ctx, record.UserID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrUserDisabled
			}
			return errs.Attach(errs.ErrDependency, err)
		}
		if !owner.IsActive() {
			return ErrUserDisabled
		}

		ok, err := tx.RefreshTokens().MarkRotated(ctx, tokenID, now)
		if err != nil {
			return errs.Attach(errs.ErrDependency, err)
		}
		if !ok {
			return errReuseDetected
		}

		next := auth.NewRefreshToken(record.UserID(), record.FamilyID(), now, s.jwt.RefreshTokenTTL())
		if err := tx.RefreshTokens().Create(ctx, next); err != nil {
			return errs.Attach(errs.ErrDependency, err)
		}

		access, err := s.IssueAccess(owner.ID(), owner.Role())
		if err != nil {
			return err
		}
		refresh, err := s.signRefresh(next)
		if err != nil {
			return err
		}
		pair = &TokenPair{UserID: owner.ID(), Access: access, Refresh: refresh}
		return nil
	})

	switch {
	case err == nil:
		s.metrics.TokenRotation(OutcomeRotated)
		return pair, nil
	case errs.Is(err, errReuseDetected):
		s.metrics.TokenRotation(OutcomeReused)
		s.logger.Warn("refresh token reuse detected, revoking family",
			slog.String("user_id", claims.UserID.String()),
			slog.String("family_id", claims.FamilyID.String()))
		if _, revokeErr := s.revokeFamily(ctx, claims.FamilyID); revokeErr != nil {
			s.logger.Error("failed to revoke reused token family",
				slog.String("family_id", claims.FamilyID.String()),
				slog.String("error", revokeErr.Error()))
		}
		return nil, errs.Mark(ErrUnknown, ErrTokenReused)
	default:
		s.metrics.TokenRotation(OutcomeRejected)
		return nil, err
	}
}

// Revoke deletes the family of a refresh token. Malformed, expired and unknown
// tokens are ignored.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := s.jwt.ValidateToken(raw, jwt.TokenTypeRefresh)
	if err != nil {
		return nil
	}

	deleted, err := s.revokeFamily(ctx, claims.FamilyID)
	if err != nil {
		return errs.Attach(errs.ErrDependency, err)
	}
	s.logger.Debug("refresh token family revoked",
		slog.String("user_id", claims.UserID.String()),
		slog.Int64("deleted", deleted))
	return nil
}

// Verify checks an access token without touching storage.
func (s *Service) Verify(raw string) (*Principal, error) {
	claims, err := s.jwt.ValidateToken(raw, jwt.TokenTypeAccess)
	if err != nil {
		return nil, mapJWTError(err)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Attach(ErrSignatureInvalid, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Principal{UserID: claims.UserID, Role: role, ExpiresAt: expiresAt}, nil
}

// SweepExpired deletes refresh token records past their expiry.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.RefreshTokens().DeleteExpired(ctx, s.clock.Now())
		deleted = n
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "sweep expired refresh tokens")
	}
	return deleted, nil
}

func (s *Service) revokeFamily(ctx context.Context, familyID uuid.UUID) (int64, error) {
	var deleted int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.RefreshTokens().DeleteFamily(ctx, familyID)
		deleted = n
		return err
	})
	return deleted, err
}

func (s *Service) signRefresh(record *auth.RefreshToken) (RefreshToken, error) {
	token, expiresAt, err := s.jwt.GenerateRefreshToken(record.UserID(), record.ID(), record.FamilyID())
	if err != nil {
		return RefreshToken{}, errs.Attach(ErrIssue, err)
	}
	return RefreshToken{Token: token, ExpiresAt: expiresAt, FamilyID: record.FamilyID()}, nil
}

func mapJWTError(err error) error {
	if errs.Is(err, jwt.ErrExpiredToken) {
		return errs.Attach(ErrExpired, err)
	}
	return errs.Attach(ErrSignatureInvalid, err)
}
