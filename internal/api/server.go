package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	app "dental-vision/internal/application"
	"dental-vision/internal/domain/entity"
)

// Server exposes the diagnosis pipeline over HTTP.
type Server struct {
	app       *fiber.App
	diagnosis *app.DiagnosisService
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ModelLoaded bool   `json:"model_loaded"`
}

// NewServer builds the Fiber app and registers all routes. The body
// limit sits above the upload cap so oversized files reach the
// validator and get its 400 instead of a bare 413.
func NewServer(diagnosis *app.DiagnosisService, maxFileSize int64, allowOrigins string) *Server {
	f := fiber.New(fiber.Config{
		BodyLimit:             int(maxFileSize) * 2,
		DisableStartupMessage: true,
	})
	f.Use(logger.New())
	f.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))

	s := &Server{app: f, diagnosis: diagnosis}

	f.Get("/", s.root)
	api := f.Group("/api")
	api.Get("/health", s.health)
	api.Post("/diagnose", s.diagnose)
	api.Get("/image/:name", s.image)
	api.Post("/enhance/:name", s.enhance)

	return s
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Dental Diagnosis API",
		"version": "1.0.0",
		"health":  "/api/health",
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		Status:      "healthy",
		Message:     "Dental diagnosis API is running",
		ModelLoaded: s.diagnosis.ModelLoaded(),
	})
}

func (s *Server) diagnose(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "no file provided, expected multipart field 'file'")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, fmt.Sprintf("error reading file: %v", err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, fmt.Sprintf("error reading file: %v", err))
	}

	report, err := s.diagnosis.Diagnose(c.UserContext(), fileHeader.Filename, content)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(report)
}

func (s *Server) image(c *fiber.Ctx) error {
	data, err := s.diagnosis.Artifact(c.Params("name"))
	if err != nil {
		return failFrom(c, err)
	}

	c.Set(fiber.HeaderContentType, mimetype.Detect(data).String())
	return c.Send(data)
}

func (s *Server) enhance(c *fiber.Ctx) error {
	name, err := s.diagnosis.Enhance(c.UserContext(), c.Params("name"))
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"enhanced_url": "/api/image/" + name,
	})
}

// failFrom maps typed pipeline errors onto HTTP statuses: validation and
// decode failures are the caller's fault, missing artifacts are 404,
// everything else is a processing error.
func failFrom(c *fiber.Ctx, err error) error {
	var (
		validationErr *entity.ValidationError
		decodeErr     *entity.DecodeError
		storageErr    *entity.StorageError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &decodeErr):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &storageErr) && storageErr.NotFound:
		return fail(c, fiber.StatusNotFound, "Image not found")
	default:
		return fail(c, fiber.StatusInternalServerError, fmt.Sprintf("error processing image: %v", err))
	}
}

func fail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"detail":  detail,
	})
}
