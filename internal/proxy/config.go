package proxy

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Shape selects what the proxy asks the model for.
type Shape string

const (
	// ShapeStructured returns the schema-constrained, normalized response.
	ShapeStructured Shape = "structured"
	// ShapeRaw asks for free text and wraps it in a single text block.
	ShapeRaw Shape = "raw"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	Shape           Shape
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	// Tracing installs the otelgin middleware.
	Tracing bool
}

// DefaultConfig returns a Config listening on :8080 with local dev origins.
func DefaultConfig() Config {
	return Config{
		Addr:  ":8080",
		Shape: ShapeStructured,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// ConfigFromEnv overlays TUTOR_ADDR, TUTOR_PROXY_SHAPE and
// TUTOR_CORS_ORIGINS (comma separated) on the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("TUTOR_ADDR")); v != "" {
		cfg.Addr = v
	}

	switch v := Shape(strings.ToLower(strings.TrimSpace(os.Getenv("TUTOR_PROXY_SHAPE")))); v {
	case "":
	case ShapeStructured, ShapeRaw:
		cfg.Shape = v
	default:
		return Config{}, fmt.Errorf("TUTOR_PROXY_SHAPE: unknown shape %q (want structured or raw)", v)
	}

	if v := os.Getenv("TUTOR_CORS_ORIGINS"); strings.TrimSpace(v) != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	return cfg, nil
}
