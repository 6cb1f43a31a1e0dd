package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	Port         int    `envconfig:"PORT" default:"8000" validate:"min=1,max=65535"`
	UploadDir    string `envconfig:"UPLOAD_DIR" default:"uploads" validate:"required"`
	ModelPath    string `envconfig:"MODEL_PATH" default:"models/dental_model.onnx" validate:"required"`
	MaxFileSize  int64  `envconfig:"MAX_FILE_SIZE" default:"10485760" validate:"min=1"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:5173,http://localhost:3000" validate:"required"`
}

// Load reads configuration from the environment, with .env support.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
