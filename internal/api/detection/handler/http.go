package detectionHandler

import (
	detectionService "NutriVision/internal/api/detection/service"
	"NutriVision/internal/middleware"
	"NutriVision/pkg/utils"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
	analyzeTimeout   time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
	utils utils.IUtils,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
		utils:            utils,
		analyzeTimeout:   defaultAnalyzeTimeout,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	detection := srv.Group("/detection")
	detection.Post("/analyze", h.Analyze)
	detection.Post("/analyze/base64", h.AnalyzeBase64)
	detection.Get("/analyses/:id", h.GetAnalysis)
	detection.Delete("/analyses/:id", h.DiscardAnalysis)

	srv.Get("/connection", h.GetConnection)
	srv.Post("/connection/refresh", h.RefreshConnection)
}
