package detectionHandler

import (
	"NutriVision/internal/api/detection"
	contextPkg "NutriVision/pkg/context"
	"NutriVision/pkg/handlerUtil"
	"NutriVision/pkg/log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const (
	defaultAnalyzeTimeout = 45 * time.Second
	lookupTimeout         = 5 * time.Second
	refreshTimeout        = 10 * time.Second
)

func (h *DetectionHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.analyzeTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file := h.formFile(ctx)
	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, h.detectionService.RejectUpload(err), ctx.Path(), "validate_image_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing file upload")

	fileContent, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	data, err := h.utils.ReadFile(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	result, err := h.detectionService.AnalyzeImage(c, detection.ImageUpload{
		ClientKey:   ctx.IP(),
		FileName:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_image")
	}

	return h.respondAnalysis(ctx, errHandler, requestID, result)
}

func (h *DetectionHandler) AnalyzeBase64(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.analyzeTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req detection.Base64DetectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, detection.ErrBadRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.detectionService.AnalyzeBase64(c, ctx.IP(), req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_base64")
	}

	return h.respondAnalysis(ctx, errHandler, requestID, result)
}

func (h *DetectionHandler) GetAnalysis(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), lookupTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	id := ctx.Params("id")

	result, err := h.detectionService.GetAnalysis(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analysis")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.AnalysisDataResponse{
		Data: detection.AnalysisResponse{ID: id, Result: *result},
	})
}

func (h *DetectionHandler) DiscardAnalysis(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), lookupTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.detectionService.DiscardAnalysis(c, ctx.Params("id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "discard_analysis")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *DetectionHandler) GetConnection(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.ConnectionResponse{
		Data: h.detectionService.ConnectionStatus(),
	})
}

func (h *DetectionHandler) RefreshConnection(ctx *fiber.Ctx) error {
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), refreshTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.ConnectionResponse{
		Data: h.detectionService.RefreshConnection(c),
	})
}

func (h *DetectionHandler) formFile(ctx *fiber.Ctx) *multipart.FileHeader {
	for _, field := range []string{"file", "image"} {
		if file, err := ctx.FormFile(field); err == nil {
			return file
		}
	}
	return nil
}

// respondAnalysis always returns a finished analysis, even past the request
// deadline, since it is already stored and announced.
func (h *DetectionHandler) respondAnalysis(ctx *fiber.Ctx, errHandler *handlerUtil.ErrorHandler, requestID string, result *detection.AnalysisResponse) error {
	h.log.WithFields(log.Fields{
		"request_id":       requestID,
		"path":             ctx.Path(),
		"analysis_id":      result.ID,
		"objects_detected": result.Result.ObjectsDetected,
	}).Info("Analysis successful")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.AnalysisDataResponse{
		Data: *result,
	})
}
