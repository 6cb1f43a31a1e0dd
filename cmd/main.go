package main

import (
	"fmt"
	"log"

	"dental-vision/config"
	"dental-vision/internal/api"
	"dental-vision/internal/container"
	"dental-vision/internal/domain/port"
	"dental-vision/internal/infrastructure/classifier"
	"dental-vision/internal/infrastructure/storage"
	"dental-vision/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// A missing or unloadable model keeps the API up; /api/health
	// reports model_loaded=false and diagnose requests fail with 500.
	var model port.Classifier
	onnxModel, err := classifier.NewModel(cfg.ModelPath)
	if err != nil {
		log.Printf("Classifier unavailable, serving without a model: %v", err)
	} else {
		defer onnxModel.Close()
		model = onnxModel
		log.Printf("Model loaded from %s", cfg.ModelPath)
	}

	c := container.New(vision.NewPipeline(), model, store, cfg.MaxFileSize)
	server := api.NewServer(c.Diagnosis, cfg.MaxFileSize, cfg.AllowOrigins)

	log.Printf("Dental diagnosis API listening on :%d", cfg.Port)
	if err := server.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
