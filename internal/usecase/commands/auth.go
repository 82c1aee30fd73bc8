package commands

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/shared"
	"vehicle-reservation/internal/usecase/tokens"
)

var (
	ErrInvalidLoginInput  = errs.NewKind(errs.KindValidation, "invalid login input")
	ErrInvalidCredentials = errs.NewKind(errs.KindAuth, "invalid credentials")
	ErrUserInactive       = errs.NewKind(errs.KindAuth, "account is inactive")
)

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	User   *queries.UserView
	Tokens *tokens.TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*tokens.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authCommandsImpl struct {
	uow    shared.UnitOfWork
	tokens *tokens.Service
	clock  clock.Clock
	logger *slog.Logger
}

func NewAuthCommands(uow shared.UnitOfWork, tokenService *tokens.Service, clk clock.Clock, logger *slog.Logger) AuthCommands {
	return &authCommandsImpl{
		uow:    uow,
		tokens: tokenService,
		clock:  clk,
		logger: logger,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	credentials, err := auth.NewCredentials(params.Email, params.Password)
	if err != nil {
		return nil, errs.Attach(ErrInvalidLoginInput, err)
	}

	u, err := a.uow.Reads().Users().FindByEmail(ctx, credentials.Email())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			credentials.Verify(nil)
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Attach(errs.ErrDependency, err)
	}

	if !credentials.Verify(u) {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, ErrUserInactive
	}

	pair, err := a.tokens.IssuePair(ctx, u)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, u.ID(), now)
	})
	if err != nil {
		// login already succeeded; last_login is informational
		a.logger.Warn("failed to update last login",
			slog.String("user_id", u.ID().String()),
			slog.String("error", err.Error()))
	} else {
		u.RecordLogin(now)
	}

	return &LoginResult{
		User: &queries.UserView{
			ID:        u.ID(),
			Email:     u.Email().Value(),
			Role:      u.Role().String(),
			IsActive:  u.IsActive(),
			LastLogin: u.LastLogin(),
		},
		Tokens: pair,
	}, nil
}

func (a *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*tokens.TokenPair, error) {
	pair, err := a.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout never fails the request; a revoke error is only logged.
func (a *authCommandsImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.tokens.Revoke(ctx, refreshToken); err != nil {
		a.logger.Warn("failed to revoke refresh token family", slog.String("error", err.Error()))
	}
	return nil
}
