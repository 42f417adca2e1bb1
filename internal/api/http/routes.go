package httpapi

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/kiosk-feed/internal/board"
	"github.com/i474232898/kiosk-feed/internal/gallery"
)

const photosPrefix = "/photos"

// Aggregator serves the merged weather and meal document.
type Aggregator interface {
	GetAggregated(ctx context.Context) board.AggregatedResponse
}

// Options locates the static content served next to the API.
type Options struct {
	PhotosDir string
	PublicDir string
}

// NewApp builds the Fiber app with the service's JSON codec and error handling.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "kiosk-feed",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          ErrorHandler,
	})
}

// ErrorHandler renders every handler error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, agg Aggregator, opts Options) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "kiosk-feed",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/weather_data", func(c *fiber.Ctx) error {
		return c.JSON(agg.GetAggregated(c.UserContext()))
	})

	app.Get("/image_list", func(c *fiber.Ctx) error {
		images, err := gallery.List(opts.PhotosDir, photosPrefix)
		if err != nil {
			log.Printf("ERROR: image list: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read photo directory")
		}
		return c.JSON(images)
	})

	app.Static(photosPrefix, opts.PhotosDir)
	app.Static("/", opts.PublicDir)
}
