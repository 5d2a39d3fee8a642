package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultMaxFetchBytes caps both remote downloads and direct uploads.
	DefaultMaxFetchBytes = 200 << 20

	defaultPipelineTimeout = 10 * time.Minute
)

// Fallback install locations searched when a tool is not on PATH.
var binaryFallbackDirs = []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin"}

// SMTPConfig holds mail submission settings.
type SMTPConfig struct {
	Server   string
	Port     int
	Email    string
	Password string
}

// TwilioConfig holds WhatsApp messaging credentials.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
}

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Host        string
	Port        string
	Environment string

	SessionSecret string

	// DBDriver is "sqlite3" or "postgres"; DatabaseURL is the DSN for
	// postgres or the file path for sqlite.
	DBDriver    string
	DatabaseURL string

	DownloadDir string

	OpenAIAPIKey string
	WhisperModel string

	// Tool paths resolved at startup; missing ffmpeg or yt-dlp is a fatal
	// configuration error, never a per-request failure.
	FFmpegPath string
	YTDLPPath  string

	MaxFetchBytes   int64
	PipelineTimeout time.Duration

	SMTP   SMTPConfig
	Twilio TwilioConfig
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{".env", ".env.local", "../.env"}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load reads the full configuration from the environment and resolves the
// external tool binaries. It fails fast on anything the server cannot run
// without.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:          getEnvOrDefault("HOST", "0.0.0.0"),
		Port:          getEnvOrDefault("PORT", "8080"),
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", "dev-secret-key-change-in-production"),
		DBDriver:      getEnvOrDefault("DB_DRIVER", "sqlite3"),
		DatabaseURL:   getEnvOrDefault("DATABASE_URL", "data/clipscribe.db"),
		DownloadDir:   getEnvOrDefault("DOWNLOAD_DIR", "downloads"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		WhisperModel:  getEnvOrDefault("WHISPER_MODEL", "whisper-1"),
		MaxFetchBytes: DefaultMaxFetchBytes,
		SMTP: SMTPConfig{
			Server:   getEnvOrDefault("SMTP_SERVER", "smtp.gmail.com"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Email:    os.Getenv("SMTP_EMAIL"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Twilio: TwilioConfig{
			AccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom: getEnvOrDefault("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		},
	}

	if v := os.Getenv("MAX_FETCH_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_FETCH_BYTES: %q", v)
		}
		cfg.MaxFetchBytes = n
	}

	cfg.PipelineTimeout = defaultPipelineTimeout
	if v := os.Getenv("PIPELINE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid PIPELINE_TIMEOUT: %q", v)
		}
		cfg.PipelineTimeout = d
	}

	switch cfg.DBDriver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite3 or postgres)", cfg.DBDriver)
	}

	var err error
	cfg.FFmpegPath, err = ResolveBinary(os.Getenv("FFMPEG_PATH"), "ffmpeg")
	if err != nil {
		return nil, err
	}
	cfg.YTDLPPath, err = ResolveBinary(os.Getenv("YTDLP_PATH"), "yt-dlp")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create download directory %s: %w", cfg.DownloadDir, err)
	}

	return cfg, nil
}

// ResolveBinary locates an external tool: an explicit override wins, then
// PATH, then the conventional install locations. The result is validated
// once here instead of on every request.
func ResolveBinary(override, name string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%s not found at configured path %s", name, override)
		}
		return override, nil
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	for _, dir := range binaryFallbackDirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s binary not found in PATH or %v; please install it", name, binaryFallbackDirs)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
