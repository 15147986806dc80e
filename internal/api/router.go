package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/healthday/events-api/internal/api/handler"
	"github.com/healthday/events-api/internal/api/middleware"
	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/service"
	"github.com/healthday/events-api/internal/infrastructure/config"
	mongorepo "github.com/healthday/events-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/healthday/events-api/internal/infrastructure/db/redis"
)

// Services bundles the constructed core services so the caller can reuse them
// outside the HTTP surface (background jobs).
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Events        *service.EventService
	Registrations *service.RegistrationService
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the wired services.
func NewRouter(cfg *config.Config, db *mongodriver.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *Services) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("events"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	eventRepo := mongorepo.NewEventRepository(db)
	registrationRepo := mongorepo.NewRegistrationRepository(db)
	outbox := redisinfra.NewMailOutbox(rdb)

	authService := service.NewAuthService(userRepo, outbox, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo, cfg.BcryptCost, log)
	eventService := service.NewEventService(eventRepo, log)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, userRepo, outbox, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	eventHandler := handler.NewEventHandler(eventService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	healthHandler := handler.NewHealthHandler(db, rdb, cfg.Env)

	protected := middleware.Auth(authService, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	organizers := middleware.RBAC(domain.RoleAdmin, domain.RoleModerator)

	e.GET("/metrics", echoprometheus.NewHandler())

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, protected)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)

	// --- User routes ---
	users := api.Group("/users", protected)
	users.GET("/profile", userHandler.Profile)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.PUT("/change-password", userHandler.ChangePassword)
	users.POST("/profile-picture", userHandler.SetProfilePicture)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id/role", userHandler.SetRole, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Event routes ---
	events := api.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/search", eventHandler.Search)
	events.GET("/category/:category", eventHandler.ByCategory)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create, protected, organizers)
	events.PUT("/:id", eventHandler.Update, protected, organizers)
	events.DELETE("/:id", eventHandler.Delete, protected, organizers)

	// --- Registration routes ---
	registrations := api.Group("/registrations", protected)
	registrations.POST("", registrationHandler.Create)
	registrations.GET("/my-registrations", registrationHandler.Mine)
	registrations.GET("/event/:eventId", registrationHandler.ForEvent)
	registrations.GET("/:id", registrationHandler.Get)
	registrations.PUT("/:id/cancel", registrationHandler.Cancel)
	registrations.POST("/:id/feedback", registrationHandler.Feedback)

	// --- Health probes (no auth required) ---
	health := api.Group("/health")
	health.GET("", healthHandler.Liveness)
	health.GET("/db", healthHandler.Database)
	health.GET("/detailed", healthHandler.Detailed)

	return e, &Services{
		Auth:          authService,
		Users:         userService,
		Events:        eventService,
		Registrations: registrationService,
	}
}
