package api

import (
	"net/http"

	reqdto "vehicle-reservation/internal/handler/dto/request"
	resdto "vehicle-reservation/internal/handler/dto/response"
	"vehicle-reservation/internal/handler/httperr"
	"vehicle-reservation/internal/handler/middleware"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/pkg/cookie"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/tokens"

	"github.com/gin-gonic/gin"
)

var errRefreshTokenRequired = errs.NewKind(errs.KindAuth, "refresh token required")

type AuthHandler struct {
	commands commands.AuthCommands
	queries  queries.UserQueries
	cfg      config.Config
}

func NewAuthHandler(authCommands commands.AuthCommands, userQueries queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		commands: authCommands,
		queries:  userQueries,
		cfg:      cfg,
	}
}

// @Summary User login
// @Description Login with email and password. Tokens are returned in the body and as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.commands.Login(c.Request.Context(), commands.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	h.setCookies(c, result.Tokens)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		TokenResponse: resdto.FromTokenPair(result.Tokens),
		User:          result.User,
	})
}

// @Summary Rotate refresh token
// @Description Exchange a refresh token for a new pair. Presenting an already rotated token revokes its whole session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh token, falls back to the cookie"
// @Success 200 {object} resdto.TokenResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := h.refreshToken(c)
	if raw == "" {
		httperr.Abort(c, errRefreshTokenRequired)
		return
	}

	pair, err := h.commands.Refresh(c.Request.Context(), raw)
	if err != nil {
		if errs.IsKind(err, errs.KindAuth) {
			cookie.ClearTokenCookies(c, h.cfg.Cookie)
		}
		httperr.Abort(c, err)
		return
	}

	h.setCookies(c, pair)
	c.JSON(http.StatusOK, resdto.FromTokenPair(pair))
}

// @Summary User logout
// @Description Revoke the refresh token and clear cookies. Always succeeds.
// @Tags auth
// @Param request body reqdto.RefreshRequest false "Refresh token, falls back to the cookie"
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := h.refreshToken(c); raw != "" {
		_ = h.commands.Logout(c.Request.Context(), raw)
	}
	cookie.ClearTokenCookies(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.UserView
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Abort(c, errMissingUser)
		return
	}

	user, err := h.queries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setCookies(c *gin.Context, pair *tokens.TokenPair) {
	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.Access.Token, pair.Refresh.Token,
		h.cfg.JWT.AccessTokenTTL, h.cfg.JWT.RefreshTokenTTL)
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	var req reqdto.RefreshRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	return cookie.GetRefreshToken(c)
}
