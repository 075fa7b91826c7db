package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	assets "github.com/haatos/resource-hub"
	"github.com/haatos/resource-hub/internal"
	"github.com/haatos/resource-hub/internal/handler"
	"github.com/haatos/resource-hub/internal/logger"
	"github.com/haatos/resource-hub/internal/security"
	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/settings"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/rs/zerolog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const sessionCleanupInterval = time.Hour

func main() {
	if err := settings.ReadDotenv(internal.DotEnvPath); err != nil {
		panic(err)
	}
	settings.Settings = settings.NewSettings()
	s := settings.Settings

	log := logger.New(s.Environment, s.LogLevel)
	ctx := log.WithContext(context.Background())

	hashKey, blockKey := security.NewKeys(s.SessionSecret)
	rdb := store.InitDatabase(s, true)
	defer rdb.Close()
	rwdb := store.InitDatabase(s, false)
	defer rwdb.Close()
	if err := store.RunMigrations(rwdb, s.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	sessionStore := newAuthSessionStore(ctx, s, rdb, rwdb, log)
	resourceStore := store.NewResourceSQLStore(rdb, rwdb)

	if s.SeedCatalog {
		catalog, err := service.ParseCatalog(assets.SeedCatalog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse seed catalog")
		}
		n, err := service.NewCatalogSeeder(resourceStore).Seed(ctx, catalog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
		if n > 0 {
			log.Info().Int("resources", n).Msg("catalog seeded")
		}
	}

	cookieSvc := service.NewCookieService(
		hashKey, blockKey,
		s.Domain,
		s.IsProduction(),
		s.SessionExpires,
	)
	userSvc := service.NewUserService(
		store.NewUserSQLStore(rdb, rwdb),
		sessionStore,
		security.NewBcryptHasher(s.BcryptCost),
		service.NewUUIDGen(),
		service.UserServiceConfig{
			DefaultPinName: s.CrisisResourceName,
			SessionExpires: s.SessionExpires,
		},
	)
	resourceSvc := service.NewResourceService(resourceStore)

	if err := userSvc.InitializeManager(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize manager")
	}

	scheduler := service.NewScheduler()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}()
	if _, err := service.ScheduleSessionCleanup(
		ctx, scheduler, userSvc, sessionCleanupInterval,
	); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session cleanup")
	}
	scheduler.Start()

	e := setupEcho(s, log)
	registerRoutes(e, handlers{
		auth:     handler.NewAuthHandler(userSvc, cookieSvc),
		user:     handler.NewUserHandler(userSvc),
		resource: handler.NewResourceHandler(resourceSvc, userSvc),
		admin:    handler.NewAdminHandler(resourceSvc),
	})

	log.Info().Str("url", s.BaseURL()).Msg("server starting")
	internal.GracefulShutdown(e, s.Port, log)
}

func newAuthSessionStore(
	ctx context.Context,
	s *settings.AppSettings,
	rdb, rwdb *sql.DB,
	log zerolog.Logger,
) service.AuthSessionStore {
	if s.SessionBackend == settings.SessionBackendRedis {
		client, err := store.NewRedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		log.Info().Str("addr", s.RedisAddr).Msg("sessions stored in redis")
		return store.NewAuthSessionRedisStore(client)
	}
	return store.NewAuthSessionSQLStore(rdb, rwdb)
}

func setupEcho(s *settings.AppSettings, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.GoJSONSerializer{}
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		handler.ContextLogger(log),
		handler.RequestLogger(),
		middleware.CORSWithConfig(internal.GetCORSConfig(s.CORSOrigins)),
		middleware.RateLimiterWithConfig(internal.GetRateLimiterConfig(s.RateLimit, s.RateBurst)),
	)

	publicFS := echo.MustSubFS(assets.PublicFS, internal.PublicDir)
	e.StaticFS("/", publicFS)
	e.GET("/favicon.ico", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/favicon.svg")
	})

	return e
}

type handlers struct {
	auth     *handler.AuthHandler
	user     *handler.UserHandler
	resource *handler.ResourceHandler
	admin    *handler.AdminHandler
}

func registerRoutes(e *echo.Echo, h handlers) {
	router := e.Group("", h.auth.SessionMiddleware)

	router.GET("/", h.auth.GetIndexPage)
	router.GET("/login", h.auth.GetLoginPage, handler.AlreadyLoggedIn)
	router.POST("/login", h.auth.PostLogin)
	router.GET("/register", h.auth.GetRegisterPage, handler.AlreadyLoggedIn)
	router.POST("/register", h.auth.PostRegister)
	router.GET("/logout", h.auth.GetLogout)

	router.GET("/dashboard", h.resource.GetDashboardPage, handler.IsAuthenticated)
	router.GET("/profile", h.user.GetProfilePage, handler.IsAuthenticated)
	router.POST("/profile", h.user.PostProfile, handler.IsAuthenticated)
	router.POST("/api/toggle-pin", h.resource.PostTogglePin, handler.IsAuthenticated)
	router.POST("/api/add-resource", h.resource.PostAddResource, handler.IsAuthenticated)
	router.POST("/api/edit-resource", h.resource.PostEditResource, handler.IsAuthenticated)
	router.POST("/api/delete-resource", h.resource.PostDeleteResource, handler.IsAuthenticated)

	router.GET("/admin", h.admin.GetAdminPage, handler.RequireManager)
	router.POST("/api/admin/add-resource", h.admin.PostAddResource, handler.RequireManager)
	router.POST("/api/admin/edit-resource", h.admin.PostEditResource, handler.RequireManager)
	router.POST("/api/admin/delete-resource", h.admin.PostDeleteResource, handler.RequireManager)

	router.GET("/manager", h.user.GetManagerPage, handler.RequireManagerOnly)
	router.POST("/api/manager/update-role", h.user.PostUpdateRole, handler.RequireManagerOnly)
}
