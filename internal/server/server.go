package server

import (
	"errors"

	"github.com/thekitbag/wibu-server/internal/config"
	"github.com/thekitbag/wibu-server/internal/journey"
	"github.com/thekitbag/wibu-server/internal/payment"
	"github.com/thekitbag/wibu-server/internal/stop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.App.Group("/api")

	journeySvc := journey.NewService(s.DB, s.Redis)
	gateway := payment.NewStripeGateway(s.Cfg.StripeSecretKey, s.Cfg.StripeWebhookSecret, s.Cfg.ClientURL)

	journey.RegisterRoutes(api.Group("/journeys"), journeySvc)
	journey.RegisterRevealRoutes(api.Group("/reveal"), journeySvc)
	stop.RegisterRoutes(api, stop.NewService(s.DB))
	payment.RegisterRoutes(api, payment.NewService(s.DB, gateway, journeySvc))
}

// errorHandler renders every handler error as a JSON body with a single
// "error" string, matching what API clients expect across the board.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
