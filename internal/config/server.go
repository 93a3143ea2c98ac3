package config

import (
	detectionHandler "NutriVision/internal/api/detection/handler"
	detectionService "NutriVision/internal/api/detection/service"
	notificationHandler "NutriVision/internal/api/notification/handler"
	"NutriVision/internal/middleware"
	"NutriVision/pkg/detectionapi"
	"NutriVision/pkg/monitor"
	"NutriVision/pkg/notifier"
	"NutriVision/pkg/redis"
	"NutriVision/pkg/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type ServerOption func(*Server) error

type Server struct {
	engine          *fiber.App
	log             *logrus.Logger
	env             *Env
	middleware      middleware.Middleware
	validator       *validator.Validate
	utils           utils.IUtils
	handlers        []handler
	redisServer     redis.IRedis
	detectionClient detectionapi.IDetectionClient
	notifier        notifier.INotifier
	monitor         monitor.IMonitor
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.env == nil {
		return nil, fmt.Errorf("environment is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithEnv(env *Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithDetectionClient(client detectionapi.IDetectionClient) ServerOption {
	return func(s *Server) error {
		s.detectionClient = client
		return nil
	}
}

func WithNotifier(n notifier.INotifier) ServerOption {
	return func(s *Server) error {
		s.notifier = n
		return nil
	}
}

// WithMonitor polls the detection backend and raises a network notification
// whenever it becomes unreachable.
func WithMonitor() ServerOption {
	return func(s *Server) error {
		if s.detectionClient == nil || s.notifier == nil || s.env == nil {
			return fmt.Errorf("detection client, notifier and environment must be initialized before monitor")
		}

		backendURL := s.env.DetectionAPIURL
		n := s.notifier
		s.monitor = monitor.New(s.detectionClient, s.env.HealthPollInterval, func(reachable bool) {
			if !reachable {
				n.Network(fmt.Sprintf("Unable to connect to the AI service. Please make sure the backend server is running on %s", backendURL))
			}
		}, s.log)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.env == nil {
			return fmt.Errorf("logger and environment must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RateLimit: s.env.RateLimit,
			RateBurst: s.env.RateBurst,
		})
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		var maxSize int64
		if s.env != nil {
			maxSize = s.env.MaxUploadSize()
		}
		s.utils = utils.New(maxSize)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Detection
	detectionServices := detectionService.NewDetectionService(
		s.log,
		s.detectionClient,
		s.redisServer,
		s.notifier,
		s.monitor,
		s.utils,
		detectionService.Options{
			ResultTTL:          s.env.ResultTTL,
			UploadMaxDimension: s.env.UploadMaxDimension,
			UploadJPEGQuality:  s.env.UploadJPEGQuality,
			BackendURL:         s.env.DetectionAPIURL,
		},
	)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices, s.utils)

	// Notifications
	notificationHandlers := notificationHandler.New(s.log, s.middleware, s.notifier)

	s.setupMiddleware()
	s.setupHealthCheck()
	s.handlers = append(s.handlers, detectionHandlers, notificationHandlers)
}

func (s *Server) Run() error {
	if s.monitor != nil {
		s.monitor.Start(context.Background())
	}

	router := s.engine.Group("/api/v1", s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine.Listen(fmt.Sprintf(":%s", s.env.AppPort))
}

func (s *Server) Shutdown() error {
	if s.monitor != nil {
		s.monitor.Stop()
	}
	if s.notifier != nil {
		s.notifier.Close()
	}

	err := s.engine.ShutdownWithTimeout(shutdownTimeout)

	if s.redisServer != nil {
		if closeErr := s.redisServer.Close(); closeErr != nil {
			s.log.Errorf("Failed to close Redis connection: %v", closeErr)
		}
	}

	return err
}

func (s *Server) setupMiddleware() {
	s.engine.Use(recover.New())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(s.env.Origins(), ","),
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.RequestIDKey,
		ExposeHeaders: middleware.RequestIDKey,
	}))
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "healthy",
			"service": "nutrivision-gateway",
		}
		if s.monitor != nil {
			body["detection_backend"] = s.monitor.Status()
		}
		return ctx.JSON(body)
	})
}
