package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string `json:"serverAddress"`
	DatabasePath  string `json:"databasePath"`
	DatabaseURL   string `json:"databaseUrl"`
	Upload        Upload `json:"upload"`
}

// Upload configuration for the photo upload pipeline
type Upload struct {
	// FieldName is the multipart form field carrying the file payload
	FieldName string `json:"fieldName"`
	// BasePath is the storage root for uploaded photos
	BasePath string `json:"basePath"`
	// NotFoundImagePath is the fallback image served when a photo is missing
	NotFoundImagePath string `json:"notFoundImagePath"`
	// ChunkDirName is the per-session subdirectory holding transient chunks
	ChunkDirName string `json:"chunkDirName"`
	// MaxFileSizeBytes is the upload size limit; 0 means unlimited
	MaxFileSizeBytes int64 `json:"maxFileSizeBytes"`
	// ThumbnailWidth is the fixed width of generated thumbnails
	ThumbnailWidth int `json:"thumbnailWidth"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":3000",
		DatabasePath:  "triplog.db",
		Upload: Upload{
			FieldName:         "qqfile",
			BasePath:          "./uploads",
			NotFoundImagePath: "./assets/no-image-found.png",
			ChunkDirName:      "chunks",
			MaxFileSizeBytes:  0,
			ThumbnailWidth:    350,
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	// .env is optional, ignore a missing file
	_ = godotenv.Load()

	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if field := os.Getenv("FILE_INPUT_NAME"); field != "" {
		cfg.Upload.FieldName = field
	}
	if basePath := os.Getenv("UPLOADED_FILES_PATH"); basePath != "" {
		cfg.Upload.BasePath = basePath
	}
	if notFound := os.Getenv("NO_IMAGE_FOUND_PATH"); notFound != "" {
		cfg.Upload.NotFoundImagePath = notFound
	}
	if chunkDir := os.Getenv("CHUNK_DIR_NAME"); chunkDir != "" {
		cfg.Upload.ChunkDirName = chunkDir
	}
	if maxSize := os.Getenv("MAX_FILE_SIZE"); maxSize != "" {
		if size, err := strconv.ParseInt(maxSize, 10, 64); err == nil && size >= 0 {
			cfg.Upload.MaxFileSizeBytes = size
		}
	}
	if width := os.Getenv("THUMBNAIL_WIDTH"); width != "" {
		if w, err := strconv.Atoi(width); err == nil && w > 0 {
			cfg.Upload.ThumbnailWidth = w
		}
	}

	// Ensure upload storage directory exists
	if err := os.MkdirAll(cfg.Upload.BasePath, 0755); err != nil {
		return nil, err
	}

	// Make base path absolute
	absPath, err := filepath.Abs(cfg.Upload.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.Upload.BasePath = absPath

	return cfg, nil
}
