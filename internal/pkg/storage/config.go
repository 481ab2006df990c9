package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GuiSantosdev/clivus/internal/pkg/env"
)

// Config holds S3 attachment storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("S3_ATTACHMENTS_ENABLED", "false") == "true",
	}

	// Validate required fields if attachment storage is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when attachment storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when attachment storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when attachment storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if attachment storage is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// NewObjectKey generates a standardized S3 object key for an attachment.
// Format: attachments/{userID}/YYYY/MM/UUID{ext}
func NewObjectKey(userID uint, fileExtension string) string {
	now := time.Now()
	return fmt.Sprintf("attachments/%d/%04d/%02d/%s%s",
		userID, now.Year(), int(now.Month()), uuid.NewString(), fileExtension)
}
