package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates process-wide configuration.
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Session    SessionConfig
	Curriculum CurriculumConfig
	Lead       LeadConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	sessionCfg, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	lead, err := loadLeadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Data:       DataConfig{Dir: getEnvOrDefault("DATA_DIR", "data")},
		Session:    sessionCfg,
		Curriculum: loadCurriculumConfig(),
		Lead:       lead,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DataConfig locates the directory for stored audio artifacts.
type DataConfig struct {
	Dir string
}

// SessionConfig controls in-memory session eviction.
type SessionConfig struct {
	// IdleTTL is how long a session may go without an update before the
	// reaper removes it. Zero disables eviction.
	IdleTTL time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	ttlMinutes, err := parseOptionalIntEnv("SESSION_IDLE_TTL_MINUTES")
	if err != nil {
		return SessionConfig{}, err
	}
	ttl := 2 * time.Hour
	if ttlMinutes != nil {
		ttl = time.Duration(*ttlMinutes) * time.Minute
	}
	return SessionConfig{IdleTTL: ttl}, nil
}

// CurriculumConfig locates grade and course context files.
type CurriculumConfig struct {
	GradeDir  string
	CourseDir string
}

func loadCurriculumConfig() CurriculumConfig {
	return CurriculumConfig{
		GradeDir:  getEnvOrDefault("GRADE_DATA_DIR", "grade_data"),
		CourseDir: getEnvOrDefault("COURSE_DATA_DIR", "course_data"),
	}
}

// LeadConfig describes lead persistence and SMTP notification.
type LeadConfig struct {
	File        string
	NotifyEmail string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	From        string
	FromName    string
}

// SMTPConfigured reports whether email notification can be attempted.
func (c LeadConfig) SMTPConfigured() bool {
	return c.NotifyEmail != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func loadLeadConfig() (LeadConfig, error) {
	port, err := parseOptionalIntEnv("SMTP_PORT")
	if err != nil {
		return LeadConfig{}, err
	}
	smtpPort := 587
	if port != nil {
		smtpPort = *port
	}

	return LeadConfig{
		File:        getEnvOrDefault("LEADS_FILE", "leads.json"),
		NotifyEmail: strings.TrimSpace(os.Getenv("LEAD_NOTIFICATION_EMAIL")),
		SMTPHost:    getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    smtpPort,
		SMTPUser:    strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPass:    strings.TrimSpace(os.Getenv("SMTP_PASSWORD")),
		From:        strings.TrimSpace(os.Getenv("SMTP_FROM")),
		FromName:    getEnvOrDefault("SMTP_FROM_NAME", "Vikalp Online School"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
