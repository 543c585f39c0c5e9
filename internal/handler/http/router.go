package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/loreline/identity-service/internal/config"
	"github.com/loreline/identity-service/internal/handler/http/middleware"
	"github.com/loreline/identity-service/internal/infrastructure/ratelimit"
	"github.com/loreline/identity-service/internal/infrastructure/security"
)

// AdminRole guards the role-management surface.
const AdminRole = "admin"

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWT         *security.JWTService
	RateLimiter *ratelimit.Limiter

	Auth          *AuthHandler
	PasswordReset *PasswordResetHandler
	Roles         *RoleHandler
	OAuth         *OAuthHandler
	Access        *AccessHandler

	// Authorizer backs the role middleware with the role store.
	Authorizer middleware.RoleAuthorizer
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.Auth(deps.JWT)
	limits := deps.Config.Security.RateLimiting

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			loginLimit := middleware.RateLimit(deps.RateLimiter, "login", limits.Login)
			auth.POST("/register", loginLimit, deps.Auth.Register)
			auth.POST("/login", loginLimit, deps.Auth.Login)
			auth.POST("/refresh", deps.Auth.Refresh)
			auth.POST("/logout", authRequired, deps.Auth.Logout)
			auth.POST("/logout-all", authRequired, deps.Auth.LogoutAll)
			auth.GET("/me", authRequired, deps.Auth.Me)

			resetLimit := middleware.RateLimit(deps.RateLimiter, "password_reset", limits.PasswordReset)
			reset := auth.Group("/password-reset")
			{
				reset.POST("/request", resetLimit, deps.PasswordReset.Request)
				reset.POST("/validate-token", deps.PasswordReset.ValidateToken)
				reset.POST("/reset", deps.PasswordReset.Reset)
			}

			oauth := auth.Group("/oauth")
			{
				oauth.GET("/:provider", deps.OAuth.Begin)
				oauth.GET("/:provider/callback", deps.OAuth.Callback)
			}
		}

		admin := v1.Group("", authRequired, middleware.RequireRoles(deps.Authorizer, AdminRole))
		{
			admin.POST("/access/check", deps.Access.Check)

			admin.POST("/roles", deps.Roles.Create)
			admin.GET("/roles", deps.Roles.List)
			admin.GET("/roles/:id", deps.Roles.Get)
			admin.PUT("/roles/:id", deps.Roles.Update)
			admin.DELETE("/roles/:id", deps.Roles.Delete)

			admin.POST("/roles/:id/users/:user_id", deps.Roles.AssignToUser)
			admin.DELETE("/roles/:id/users/:user_id", deps.Roles.RemoveFromUser)
			admin.GET("/users/:user_id/roles", deps.Roles.RolesForUser)

			admin.GET("/permissions", deps.Roles.ListPermissions)
			admin.GET("/roles/:id/permissions", deps.Roles.PermissionsForRole)
			admin.POST("/roles/:id/permissions/:permission_id", deps.Roles.AssignPermission)
			admin.DELETE("/roles/:id/permissions/:permission_id", deps.Roles.RemovePermission)
		}
	}

	return router
}
