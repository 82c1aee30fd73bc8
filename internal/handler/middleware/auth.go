package middleware

import (
	"log/slog"
	"strings"

	"vehicle-reservation/internal/handler/httperr"
	"vehicle-reservation/internal/pkg/cookie"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/tokens"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errAccessTokenRequired = errs.NewKind(errs.KindAuth, "access token required")

type TokenVerifier interface {
	Verify(raw string) (*tokens.Principal, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

const ctxUserIDKey = "user_id"

func NewAuthMiddleware(verifier TokenVerifier, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth accepts the access token from the cookie or a Bearer header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if token == "" {
			httperr.Abort(c, errAccessTokenRequired)
			return
		}

		principal, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.Abort(c, err)
			return
		}

		c.Set(ctxUserIDKey, principal.UserID)
		c.Set("jwt_claims", map[string]any{
			"user_id": principal.UserID.String(),
			"role":    principal.Role.String(),
		})
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}
