package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/service"
	"github.com/loreline/identity-service/internal/utils/random"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// OAuthHandler serves the browser-facing OAuth code flow. The CSRF state is
// carried in a short-lived HttpOnly cookie and checked on callback.
type OAuthHandler struct {
	oauth  *service.OAuthService
	logger *zap.Logger
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(oauth *service.OAuthService, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, logger: logger.Named("oauth_handler")}
}

// Begin handles GET /auth/oauth/:provider, redirecting to the provider's
// consent page.
func (h *OAuthHandler) Begin(c *gin.Context) {
	provider := c.Param("provider")

	state, err := random.URLSafe(16)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	url, err := h.oauth.AuthCodeURL(provider, state)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback handles GET /auth/oauth/:provider/callback, completing the code
// flow and returning a token pair.
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid oauth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing authorization code"})
		return
	}

	result, err := h.oauth.HandleCallback(c.Request.Context(), provider, code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
