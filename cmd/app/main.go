package main

import (
	"NutriVision/internal/config"
	"NutriVision/pkg/detectionapi"
	"NutriVision/pkg/log"
	"NutriVision/pkg/notifier"
	"NutriVision/pkg/redis"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatalf("Error loading environment: %v", err)
	}

	fiberApp := config.NewFiber(logger, env.MaxUploadSize())
	validator := config.NewValidator()
	redisServer := redis.New(redis.Config{
		Address:  env.RedisAddress,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	}, logger)
	detectionClient := detectionapi.New(detectionapi.Config{
		BaseURL:       env.DetectionAPIURL,
		UploadTimeout: env.DetectionUploadTimeout,
		HealthTimeout: env.DetectionHealthTimeout,
	}, logger)
	notificationCenter := notifier.New(logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithEnv(env),
		config.WithValidator(validator),
		config.WithRedisServer(redisServer),
		config.WithDetectionClient(detectionClient),
		config.WithNotifier(notificationCenter),
		config.WithMonitor(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started, forwarding detections to %s", env.DetectionAPIURL)

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
