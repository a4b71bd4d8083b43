package tutor

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds tutor request settings.
type Config struct {
	// Timeout bounds one GetTutorResponse round trip. Zero disables it.
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the defaults. Token limit and temperature are left
// at the vendor defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv reads TUTOR_TIMEOUT, TUTOR_MAX_TOKENS and TUTOR_TEMPERATURE
// on top of DefaultConfig. TUTOR_TIMEOUT accepts a duration ("90s") or a
// number of seconds.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("TUTOR_TIMEOUT")); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return cfg, fmt.Errorf("TUTOR_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("TUTOR_MAX_TOKENS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("TUTOR_MAX_TOKENS: invalid value %q", v)
		}
		cfg.MaxTokens = n
	}
	if v := strings.TrimSpace(os.Getenv("TUTOR_TEMPERATURE")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 2 {
			return cfg, fmt.Errorf("TUTOR_TEMPERATURE: invalid value %q", v)
		}
		cfg.Temperature = f
	}
	return cfg, nil
}

func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative timeout %q", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %q", v)
	}
	return d, nil
}
