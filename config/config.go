package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration. Upload constraints are operational
// values, tunable per deployment, never compile-time constants.
type Config struct {
	Port        string
	CORSOrigins []string

	// Upload Coordinator constraints.
	UploadAllowedTypes []string // MIME allow-list for identity documents
	UploadMaxBytes     int64

	// Cloudinary unsigned upload. Empty CloudName disables the remote
	// document store entirely (local disk only).
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryFolder       string

	// Local fallback document directory, served statically.
	UploadDir string

	// Registration draft lifetime.
	DraftTTL time.Duration

	// Admin session tokens.
	JWTSecret string
	JWTTTL    time.Duration

	RateLimit RateLimitConfig
}

func Load() Config {
	return Config{
		Port:        envOrDefault("PORT", "8080"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),

		UploadAllowedTypes: envList("UPLOAD_ALLOWED_TYPES",
			[]string{"image/jpeg", "image/png", "application/pdf"}),
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", 5*1024*1024),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: envOrDefault("CLOUDINARY_UPLOAD_PRESET", "hotel_docs"),
		CloudinaryFolder:       envOrDefault("CLOUDINARY_FOLDER", "hotel-registration-docs"),

		UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),

		DraftTTL: envDuration("DRAFT_TTL", 2*time.Hour),

		JWTSecret: envOrDefault("JWT_SECRET", ""),
		JWTTTL:    envDuration("JWT_TTL", 12*time.Hour),

		RateLimit: LoadRateLimitConfig(),
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
