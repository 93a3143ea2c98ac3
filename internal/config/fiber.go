package config

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const bodyLimitFactor = 4

// NewFiber keeps the transport body cap well above maxUploadSize so oversized
// uploads still reach the handlers and get a FILE_TOO_LARGE answer.
func NewFiber(logger *logrus.Logger, maxUploadSize int64) *fiber.App {
	bodyLimit := int(maxUploadSize*bodyLimitFactor) + 1024*1024

	app := fiber.New(
		fiber.Config{
			AppName:           "NutriVision Gateway",
			BodyLimit:         bodyLimit,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: false,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError

				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					code = fiberErr.Code
				}

				if code >= fiber.StatusInternalServerError {
					logger.WithFields(logrus.Fields{
						"path":  c.Path(),
						"error": err.Error(),
					}).Error("Unhandled error")
				}

				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			},
		})

	return app
}
