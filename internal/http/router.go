package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safe-harbor/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	counsellorH *CounsellorHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")

	counsellors := api.Group("/counsellors")
	counsellors.POST("/signup", counsellorH.Signup)
	counsellors.POST("/login", counsellorH.Login)
	counsellors.GET("", counsellorH.List)
	counsellors.GET("/:email", JWTAuthMiddleware(jwtSvc), counsellorH.GetByEmail)
	counsellors.POST("/reset-password", counsellorH.ResetPassword)
	counsellors.PATCH("/:id", counsellorH.Update)
	counsellors.PUT("/:id/status", counsellorH.UpdateStatus)
	counsellors.PUT("/:id/availability", counsellorH.UpdateAvailability)
	counsellors.POST("/:id/qualifications", counsellorH.AddQualification)

	users := api.Group("/users")
	users.POST("/otp-for-password/:email", counsellorH.SendPasswordOTP)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
