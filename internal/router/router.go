package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/handler"
	"github.com/stemsi/classgrid-backend/internal/middleware"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Teacher   *handler.TeacherHandler
	Subject   *handler.SubjectHandler
	Section   *handler.SectionHandler
	Schedule  *handler.ScheduleHandler
	Setting   *handler.SettingHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware(), middleware.RequestLogger(log))

	// Spreadsheets are already zip-compressed and pass through untouched.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)
	requireJWT := middleware.RequireAdminJWT(authService)
	activeSession := middleware.CheckActiveSession(authService)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/signup", authLimiter.Middleware(), handlers.Auth.Signup)

		// Authenticated profile routes
		auth.POST("/logout", requireJWT, handlers.Auth.Logout)
		auth.GET("/me", requireJWT, activeSession, handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group (Query Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService), activeSession)
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	// ─── 3. Admin Group (JWT + Single Session + RBAC) ──────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireJWT, activeSession)
	{
		// Dashboard
		adminAPI.GET("/dashboard",
			handlers.Dashboard.GetDashboardData, // Open to all admins
		)
		adminAPI.GET("/activity",
			middleware.RequirePermission(model.PermissionSettingsRead),
			handlers.Dashboard.GetActivity,
		)

		// Teachers Routes
		teachersGroup := adminAPI.Group("/teachers")
		{
			teachersGroup.GET("", middleware.RequirePermission(model.PermissionTeachersRead), handlers.Teacher.GetAll)
			teachersGroup.GET("/:id", middleware.RequirePermission(model.PermissionTeachersRead), handlers.Teacher.Get)
			teachersGroup.POST("", middleware.RequirePermission(model.PermissionTeachersWrite), handlers.Teacher.Create)
			teachersGroup.PUT("/:id", middleware.RequirePermission(model.PermissionTeachersWrite), handlers.Teacher.Update)
			teachersGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionTeachersWrite), handlers.Teacher.Delete)
		}

		// Subjects Routes
		subjectsGroup := adminAPI.Group("/subjects")
		{
			subjectsGroup.GET("", middleware.RequirePermission(model.PermissionSubjectsRead), handlers.Subject.GetAll)
			subjectsGroup.POST("", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Create)
			subjectsGroup.PUT("/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Update)
			subjectsGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Delete)
		}

		// Sections Routes
		sectionsGroup := adminAPI.Group("/sections")
		{
			sectionsGroup.GET("", middleware.RequirePermission(model.PermissionSectionsRead), handlers.Section.GetAll)
			sectionsGroup.POST("", middleware.RequirePermission(model.PermissionSectionsWrite), handlers.Section.Create)
			sectionsGroup.PUT("/:id", middleware.RequirePermission(model.PermissionSectionsWrite), handlers.Section.Update)
			sectionsGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionSectionsWrite), handlers.Section.Delete)
		}

		// Schedule Routes
		scheduleGroup := adminAPI.Group("/schedule")
		scheduleGroup.Use(middleware.RequirePermission(model.PermissionScheduleRead))
		{
			// The grid axes only change with a release.
			scheduleGroup.GET("/meta", middleware.CacheControl(3600), handlers.Schedule.Meta)
			scheduleGroup.GET("/sections/:id", handlers.Schedule.Week)
			scheduleGroup.GET("/sections/:id/at", handlers.Schedule.FindAt)
			scheduleGroup.GET("/sections/:id/export", middleware.NoStore(), handlers.Schedule.Export)
			scheduleGroup.GET("/classes/:id", handlers.Schedule.GetClass)

			write := middleware.RequirePermission(model.PermissionScheduleWrite)
			scheduleGroup.POST("/classes", write, handlers.Schedule.CreateClass)
			scheduleGroup.PUT("/classes/:id", write, handlers.Schedule.UpdateClass)
			scheduleGroup.DELETE("/classes/:id", write, handlers.Schedule.DeleteClass)
		}

		// App Settings Routes
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Setting.GetAllSettings)
			settingsGroup.PUT("", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Setting.UpdateSettings)
		}
	}

	return router
}
