package detectionapi

import (
	"NutriVision/internal/api/detection"
	"NutriVision/pkg/response"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultUploadTimeout = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second

	maxErrorBodySize = 64 * 1024
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IDetectionClient interface {
	DetectObjects(ctx context.Context, upload detection.ImageUpload) (*detection.DetectionResponse, error)
	DetectObjectsBase64(ctx context.Context, base64Image string) (*detection.DetectionResponse, error)
	CheckHealth(ctx context.Context) (*detection.HealthResponse, error)
	CheckConnection(ctx context.Context) bool
}

type Config struct {
	BaseURL       string
	UploadTimeout time.Duration
	HealthTimeout time.Duration
}

type detectionClient struct {
	baseURL      string
	uploadClient *http.Client
	healthClient *http.Client
	log          *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) IDetectionClient {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = DefaultHealthTimeout
	}

	return &detectionClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		healthClient: &http.Client{Timeout: cfg.HealthTimeout},
		log:          log,
	}
}

func (c *detectionClient) DetectObjects(ctx context.Context, upload detection.ImageUpload) (*detection.DetectionResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fileName := upload.FileName
	if fileName == "" {
		fileName = "image.jpg"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, fmt.Errorf("write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-objects", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.WithFields(logrus.Fields{
		"file_name": fileName,
		"file_size": len(upload.Data),
	}).Debug("Sending image to detection backend")

	var result detection.DetectionResponse
	if err := c.do(c.uploadClient, req, &result); err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"total_objects": result.TotalObjects,
		"detections":    len(result.Detections),
		"success":       result.Success,
	}).Info("Detection backend responded")

	return &result, nil
}

func (c *detectionClient) DetectObjectsBase64(ctx context.Context, base64Image string) (*detection.DetectionResponse, error) {
	payload, err := json.Marshal(detection.Base64DetectionRequest{Image: base64Image})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-objects-base64", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result detection.DetectionResponse
	if err := c.do(c.uploadClient, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *detectionClient) CheckHealth(ctx context.Context) (*detection.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var result detection.HealthResponse
	if err := c.do(c.healthClient, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *detectionClient) CheckConnection(ctx context.Context) bool {
	if _, err := c.CheckHealth(ctx); err != nil {
		c.log.WithField("error", err.Error()).Warn("Detection backend connection failed")
		return false
	}
	return true
}

func (c *detectionClient) do(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return response.Wrap(detection.ErrBackendTimeout, err)
		}
		return response.Wrap(detection.ErrMalformedResponse, err)
	}

	return nil
}

func classifyTransportError(err error) error {
	if isTimeout(err) {
		return response.Wrap(detection.ErrBackendTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return response.Wrap(detection.ErrBackendUnreachable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func backendError(resp *http.Response) error {
	be := &detection.BackendError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return be
	}

	var body detection.BackendErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return be
	}

	switch d := body.Detail.(type) {
	case string:
		be.Detail = d
	case nil:
	default:
		if encoded, err := json.Marshal(d); err == nil {
			be.Detail = string(encoded)
		}
	}

	return be
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
