package server

import (
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/analytics"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/auth"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/challenge"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/config"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/exercise"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/stream"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	authService := auth.NewService(s.Cfg.JWTSecret, s.DB)
	challengeService := challenge.NewService(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), authService)
	exercise.RegisterRoutes(s.App.Group("/exercises"), exercise.NewService(s.DB), jwtMiddleware)
	workout.RegisterRoutes(s.App.Group("/workouts"), workout.NewService(s.DB, s.Stream), jwtMiddleware)
	challenge.RegisterRoutes(s.App.Group("/challenges"), challengeService, jwtMiddleware)
	challenge.RegisterEntryRoutes(s.App.Group("/entries"), challengeService, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	users := s.App.Group("/users")
	auth.RegisterUserRoutes(users, authService)
	analytics.RegisterRoutes(users, analytics.NewService(s.DB))
}
