package utils

import (
	"NutriVision/internal/api/detection"
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: "plate.jpg", Header: header, Size: size}
}

func TestNew_DefaultMaxFileSize(t *testing.T) {
	if size := New(0).MaxFileSize(); size != DefaultMaxFileSize {
		t.Errorf("Expected default max size %d, got %d", DefaultMaxFileSize, size)
	}
	if size := New(1024).MaxFileSize(); size != 1024 {
		t.Errorf("Expected max size 1024, got %d", size)
	}
}

func TestValidateImageFile(t *testing.T) {
	u := New(0)

	tests := []struct {
		name     string
		file     *multipart.FileHeader
		expected error
	}{
		{"missing file", nil, detection.ErrNoFile},
		{"not an image", fileHeader("application/pdf", 1024), detection.ErrInvalidFileType},
		{"too large", fileHeader("image/jpeg", DefaultMaxFileSize+1), detection.ErrFileTooLarge},
		{"exactly at limit", fileHeader("image/png", DefaultMaxFileSize), nil},
		{"small webp", fileHeader("image/webp", 2048), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.ValidateImageFile(tt.file)
			if !errors.Is(err, tt.expected) && err != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestValidateImageData(t *testing.T) {
	u := New(64 * 1024)
	pngData := createTestPNG(t, 8, 8)

	if err := u.ValidateImageData(pngData); err != nil {
		t.Errorf("Expected PNG to be accepted, got %v", err)
	}
	if err := u.ValidateImageData(nil); !errors.Is(err, detection.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
	if err := u.ValidateImageData([]byte("%PDF-1.4 not an image")); !errors.Is(err, detection.ErrInvalidFileType) {
		t.Errorf("Expected ErrInvalidFileType, got %v", err)
	}
	if err := u.ValidateImageData(make([]byte, 64*1024+1)); !errors.Is(err, detection.ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestDecodeBase64Image(t *testing.T) {
	u := New(0)
	raw := []byte("image-bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	for _, in := range []string{encoded, "data:image/png;base64," + encoded, "  " + encoded + "\n"} {
		data, err := u.DecodeBase64Image(in)
		if err != nil {
			t.Fatalf("DecodeBase64Image(%q) returned error: %v", in, err)
		}
		if !bytes.Equal(data, raw) {
			t.Errorf("DecodeBase64Image(%q) = %q, expected %q", in, data, raw)
		}
	}

	if _, err := u.DecodeBase64Image("data:image/png;base64"); !errors.Is(err, detection.ErrInvalidBase64) {
		t.Errorf("Expected ErrInvalidBase64 for data URI without payload separator, got %v", err)
	}
	if _, err := u.DecodeBase64Image("!!!"); !errors.Is(err, detection.ErrInvalidBase64) {
		t.Errorf("Expected ErrInvalidBase64, got %v", err)
	}
	if _, err := u.DecodeBase64Image(""); !errors.Is(err, detection.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
}

func TestOptimizeImageForUpload_Disabled(t *testing.T) {
	u := New(0)
	data := createTestPNG(t, 40, 20)

	out, contentType, err := u.OptimizeImageForUpload(data, 0, 85)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("Expected data to be returned untouched")
	}
	if contentType != "image/png" {
		t.Errorf("Expected image/png, got %s", contentType)
	}
}

func TestOptimizeImageForUpload_Resizes(t *testing.T) {
	u := New(0)

	out, contentType, err := u.OptimizeImageForUpload(createTestPNG(t, 400, 200), 100, 85)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("Expected image/png, got %s", contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to decode optimized image: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("Expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}

	out, contentType, err = u.OptimizeImageForUpload(createTestJPEG(t, 120, 480), 240, 80)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", contentType)
	}
	cfg, _, err = image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to decode optimized image: %v", err)
	}
	if cfg.Width != 60 || cfg.Height != 240 {
		t.Errorf("Expected 60x240, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestOptimizeImageForUpload_SmallImageUntouched(t *testing.T) {
	u := New(0)
	data := createTestJPEG(t, 50, 50)

	out, _, err := u.OptimizeImageForUpload(data, 800, 85)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("Expected small image to be returned untouched")
	}
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New(0)
	now := time.Now()

	a, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, _ := u.NewULIDFromTimestamp(now)

	if len(a) != 26 {
		t.Errorf("Expected 26 character ULID, got %q", a)
	}
	if a == b {
		t.Errorf("Expected distinct ids, got %q twice", a)
	}
}
