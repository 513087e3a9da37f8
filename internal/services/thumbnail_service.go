package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
)

// ThumbnailService generates fixed-width miniatures of uploaded photos
type ThumbnailService struct {
	width int
}

// NewThumbnailService creates a ThumbnailService producing thumbnails of the
// given width; height follows the source aspect ratio
func NewThumbnailService(width int) *ThumbnailService {
	if width <= 0 {
		width = 350
	}
	return &ThumbnailService{width: width}
}

// Width returns the configured thumbnail width
func (s *ThumbnailService) Width() int {
	return s.width
}

// Generate reads the image at sourcePath, scales it proportionally to the
// configured width and writes it to destinationPath. The encoding follows
// the destination extension; HEIC destinations are encoded as JPEG since no
// encoder exists for them.
func (s *ThumbnailService) Generate(sourcePath, destinationPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	var img image.Image
	if isHEIC(sourcePath) {
		img, err = goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to decode HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
	}

	// Height 0 preserves the aspect ratio
	resized := imaging.Resize(img, s.width, 0, imaging.Lanczos)

	if err := imaging.Save(resized, destinationPath); err != nil {
		if err == imaging.ErrUnsupportedFormat {
			return saveJPEG(resized, destinationPath)
		}
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return nil
}

func saveJPEG(img image.Image, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 85}); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}

func isHEIC(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".heic" || ext == ".heif"
}
