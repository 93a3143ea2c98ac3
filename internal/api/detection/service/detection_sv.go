package detectionService

import (
	"NutriVision/internal/api/detection"
	"NutriVision/internal/entity"
	"NutriVision/pkg/converter"
	"NutriVision/pkg/redis"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *detectionService) AnalyzeImage(ctx context.Context, upload detection.ImageUpload) (*detection.AnalysisResponse, error) {
	if err := s.utils.ValidateImageData(upload.Data); err != nil {
		s.notifyFailure(err)
		return nil, err
	}

	release, err := s.acquire(upload.ClientKey)
	if err != nil {
		return nil, err
	}
	defer release()

	data, contentType, err := s.utils.OptimizeImageForUpload(upload.Data, s.opts.UploadMaxDimension, s.opts.UploadJPEGQuality)
	if err != nil {
		s.notifyFailure(err)
		return nil, err
	}
	upload.Data = data
	upload.ContentType = contentType

	raw, err := s.client.DetectObjects(ctx, upload)
	if err != nil {
		s.notifyFailure(err)
		return nil, err
	}

	return s.finish(ctx, raw)
}

func (s *detectionService) AnalyzeBase64(ctx context.Context, clientKey string, base64Image string) (*detection.AnalysisResponse, error) {
	data, err := s.utils.DecodeBase64Image(base64Image)
	if err != nil {
		s.notifyFailure(err)
		return nil, err
	}

	if err := s.utils.ValidateImageData(data); err != nil {
		s.notifyFailure(err)
		return nil, err
	}

	release, err := s.acquire(clientKey)
	if err != nil {
		return nil, err
	}
	defer release()

	raw, err := s.client.DetectObjectsBase64(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		s.notifyFailure(err)
		return nil, err
	}

	return s.finish(ctx, raw)
}

func (s *detectionService) finish(ctx context.Context, raw *detection.DetectionResponse) (*detection.AnalysisResponse, error) {
	if !raw.Success {
		s.log.WithFields(logrus.Fields{
			"message":       raw.Message,
			"total_objects": raw.TotalObjects,
		}).Warn("Detection backend reported an unsuccessful analysis")
	}

	result := converter.ToAnalysisResult(raw)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate analysis id: %w", err)
	}

	if err := s.store.SetAnalysis(ctx, id, &result, s.opts.ResultTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"analysis_id": id,
			"error":       err.Error(),
		}).Warn("Failed to store analysis snapshot")
	}

	s.notifier.Success(fmt.Sprintf("Detection complete! Found %d ingredients.", result.ObjectsDetected))

	s.log.WithFields(logrus.Fields{
		"analysis_id":      id,
		"objects_detected": result.ObjectsDetected,
		"ingredients":      len(result.Ingredients),
		"confidence":       result.Confidence,
	}).Info("Analysis completed")

	return &detection.AnalysisResponse{ID: id, Result: result}, nil
}

func (s *detectionService) GetAnalysis(ctx context.Context, id string) (*entity.AnalysisResult, error) {
	result, err := s.store.GetAnalysis(ctx, id)
	if errors.Is(err, redis.ErrAnalysisNotFound) {
		return nil, detection.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *detectionService) DiscardAnalysis(ctx context.Context, id string) error {
	err := s.store.DeleteAnalysis(ctx, id)
	if errors.Is(err, redis.ErrAnalysisNotFound) {
		return detection.ErrAnalysisNotFound
	}
	return err
}

func (s *detectionService) ConnectionStatus() entity.ConnectionStatus {
	return s.monitor.Status()
}

func (s *detectionService) RefreshConnection(ctx context.Context) entity.ConnectionStatus {
	return s.monitor.CheckNow(ctx)
}

// acquire allows one in-flight analysis per client key.
func (s *detectionService) acquire(clientKey string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[clientKey]; busy {
		return nil, detection.ErrUploadInProgress
	}
	s.inFlight[clientKey] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inFlight, clientKey)
		s.mu.Unlock()
	}, nil
}
