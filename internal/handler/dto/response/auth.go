package response

import (
	"time"

	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/tokens"
)

type TokenResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type LoginResponse struct {
	TokenResponse
	User *queries.UserView `json:"user"`
}

func FromTokenPair(pair *tokens.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:      pair.Access.Token,
		AccessExpiresAt:  pair.Access.ExpiresAt,
		RefreshToken:     pair.Refresh.Token,
		RefreshExpiresAt: pair.Refresh.ExpiresAt,
	}
}
