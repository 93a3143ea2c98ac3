package utils

import (
	"NutriVision/internal/api/detection"
	"NutriVision/pkg/response"
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/webp"
)

const DefaultMaxFileSize = 10 * 1024 * 1024

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	MaxFileSize() int64
	ValidateImageFile(file *multipart.FileHeader) error
	ValidateImageData(data []byte) error
	ReadFile(file multipart.File) ([]byte, error)
	DecodeBase64Image(encoded string) ([]byte, error)
	OptimizeImageForUpload(imageData []byte, maxDimension int, quality int) ([]byte, string, error)
}

type utils struct {
	maxFileSize int64
}

func New(maxFileSize int64) IUtils {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &utils{
		maxFileSize: maxFileSize,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) MaxFileSize() int64 {
	return u.maxFileSize
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return detection.ErrNoFile
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return detection.ErrInvalidFileType
	}

	if file.Size > u.maxFileSize {
		return detection.ErrFileTooLarge
	}

	return nil
}

// ValidateImageData checks the decoded bytes, so a renamed non-image is
// rejected even when the declared content type says otherwise.
func (u *utils) ValidateImageData(data []byte) error {
	if len(data) == 0 {
		return detection.ErrNoFile
	}

	if int64(len(data)) > u.maxFileSize {
		return detection.ErrFileTooLarge
	}

	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return detection.ErrInvalidFileType
	}

	return nil
}

func (u *utils) ReadFile(file multipart.File) ([]byte, error) {
	fileBytes, err := io.ReadAll(io.LimitReader(file, u.maxFileSize+1))
	if err != nil {
		return nil, err
	}

	return fileBytes, nil
}

// DecodeBase64Image accepts raw base64 or a data URI such as
// "data:image/png;base64,....".
func (u *utils) DecodeBase64Image(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ",")
		if idx == -1 {
			return nil, detection.ErrInvalidBase64
		}
		encoded = encoded[idx+1:]
	}

	if encoded == "" {
		return nil, detection.ErrNoFile
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, response.Wrap(detection.ErrInvalidBase64, err)
	}

	return data, nil
}

// OptimizeImageForUpload shrinks images whose longest side exceeds
// maxDimension and re-encodes them. PNG stays PNG; everything else becomes
// JPEG. A maxDimension of 0 returns the input untouched.
func (u *utils) OptimizeImageForUpload(imageData []byte, maxDimension int, quality int) ([]byte, string, error) {
	contentType := mimetype.Detect(imageData).String()
	if maxDimension <= 0 {
		return imageData, contentType, nil
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", errors.Join(detection.ErrInvalidFileType, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return imageData, contentType, nil
	}

	if bounds.Dx() >= bounds.Dy() {
		img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
	}

	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, img)
		contentType = "image/png"
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
		contentType = "image/jpeg"
	}

	if err != nil {
		return nil, "", err
	}

	return buf.Bytes(), contentType, nil
}
