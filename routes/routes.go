package routes

import (
	"net/http"

	"foodlens/controllers"
	"foodlens/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps are the handlers and middleware the router wires together.
type Deps struct {
	Auth        middlewares.TokenAuthenticator
	AuthCtl     *controllers.AuthController
	AnalysisCtl *controllers.AnalysisController
	HealthCtl   *controllers.HealthController
	RealtimeCtl *controllers.RealtimeController
	Limiter     *middlewares.RateLimiter
	Logger      *logrus.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middlewares.AuthMiddleware(d.Auth)
	optionalAuth := middlewares.OptionalAuth(d.Auth)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.AuthCtl.Register)
		auth.POST("/login", d.AuthCtl.Login)
		auth.POST("/forgot-password", d.AuthCtl.ForgotPassword)
		auth.POST("/reset-password", d.AuthCtl.ResetPassword)
		auth.POST("/logout", requireAuth, d.AuthCtl.Logout)
		auth.GET("/me", requireAuth, d.AuthCtl.Me)
	}

	user := r.Group("/user", requireAuth)
	{
		user.PUT("/profile", d.AuthCtl.UpdateProfile)
	}

	// Anonymous use is allowed; results are stored only for signed-in users.
	analyze := []gin.HandlerFunc{optionalAuth}
	if d.Limiter != nil {
		analyze = append(analyze, d.Limiter.Handler())
	}
	r.POST("/analyze", append(analyze, d.AnalysisCtl.Analyze)...)
	r.POST("/health/:type", optionalAuth, d.HealthCtl.Run)

	protected := r.Group("/", requireAuth)
	{
		protected.GET("/analyses", d.AnalysisCtl.List)
		protected.DELETE("/analyses/:id", d.AnalysisCtl.Delete)
		protected.GET("/health/tests", d.HealthCtl.History)
		protected.DELETE("/health/tests/:id", d.HealthCtl.Delete)
		protected.GET("/ws", d.RealtimeCtl.Events)
	}

	return r
}
