package services

import (
	"io"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// metadataReadLimit bounds how much of a photo is read for metadata
// extraction. EXIF blocks sit near the start of the file, so 128 KiB is
// enough and keeps I/O flat for large photos.
const metadataReadLimit = 128 * 1024

// PhotoMetadata holds the capture metadata extracted from a photo. Each
// field is independently optional; nil means the tag was absent.
type PhotoMetadata struct {
	Date      *time.Time
	Latitude  *float64
	Longitude *float64
}

// EXIFService extracts capture metadata from images
type EXIFService struct{}

// NewEXIFService creates a new EXIFService
func NewEXIFService() *EXIFService {
	return &EXIFService{}
}

// Extract reads the first 128 KiB of the file at path and returns whatever
// capture date and GPS coordinates are present. Extraction is best-effort:
// a missing file, corrupt EXIF block or unsupported format yields all-absent
// values, never an error.
func (s *EXIFService) Extract(path string) PhotoMetadata {
	var md PhotoMetadata

	f, err := os.Open(path)
	if err != nil {
		return md
	}
	defer f.Close()

	x, err := exif.Decode(io.LimitReader(f, metadataReadLimit))
	if err != nil {
		return md
	}

	// DateTime prefers DateTimeOriginal and falls back to DateTime
	if tm, err := x.DateTime(); err == nil {
		md.Date = &tm
	}

	if lat, long, err := x.LatLong(); err == nil {
		md.Latitude = &lat
		md.Longitude = &long
	}

	return md
}
