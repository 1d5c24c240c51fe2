package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Audio formats accepted for transcription
var SupportedAudioFormats = []string{".mp3", ".wav", ".m4a", ".flac"}

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Assembly AssemblyConfig
	Ollama   OllamaConfig
	Calendar CalendarConfig
	Output   OutputConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// AssemblyConfig holds AssemblyAI configuration
type AssemblyConfig struct {
	APIKey           string `envconfig:"ASSEMBLYAI_API_KEY"`
	SpeakersExpected int    `envconfig:"ASSEMBLYAI_SPEAKERS_EXPECTED" default:"0"`
	MaxAudioDuration int    `envconfig:"MAX_AUDIO_DURATION" default:"3600"` // seconds
}

// OllamaConfig holds Ollama configuration
type OllamaConfig struct {
	BaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	Model   string `envconfig:"OLLAMA_MODEL" default:"llama3.2"`
}

// CalendarConfig holds Google Calendar configuration
type CalendarConfig struct {
	Enabled    bool   `envconfig:"CALENDAR_ENABLED" default:"true"`
	TokenFile  string `envconfig:"GOOGLE_TOKEN_FILE" default:"config/token.json"`
	CalendarID string `envconfig:"GOOGLE_CALENDAR_ID" default:"primary"`
	Timezone   string `envconfig:"GOOGLE_CALENDAR_TIMEZONE" default:"America/New_York"`
}

// OutputConfig holds artifact output configuration
type OutputConfig struct {
	Dir string `envconfig:"OUTPUT_DIR" default:"output"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := config.EnsureDirectories(); err != nil {
		return nil, err
	}

	// Missing credentials are a warning, not a startup failure: transcript
	// analysis endpoints work without AssemblyAI, and calendar push can be
	// disabled.
	if missing := config.MissingCredentials(); len(missing) > 0 {
		log.Printf("Warning: Missing configuration: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

// MissingCredentials lists the external-service credentials that are not set
func (c *Config) MissingCredentials() []string {
	missing := make([]string, 0, 2)
	if c.Assembly.APIKey == "" {
		missing = append(missing, "ASSEMBLYAI_API_KEY")
	}
	if c.Calendar.Enabled {
		if _, err := os.Stat(c.Calendar.TokenFile); err != nil {
			missing = append(missing, "Google token file")
		}
	}
	return missing
}

// EnsureDirectories creates the artifact output directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Output.Dir, c.TranscriptsDir(), c.MinutesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// TranscriptsDir returns the directory transcript artifacts are written to
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.Output.Dir, "transcripts")
}

// MinutesDir returns the directory minutes artifacts are written to
func (c *Config) MinutesDir() string {
	return filepath.Join(c.Output.Dir, "minutes")
}

// IsSupportedAudioFormat reports whether the file extension is accepted
func IsSupportedAudioFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedAudioFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
