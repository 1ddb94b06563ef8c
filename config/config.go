package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	App    AppConfig
	Logger LoggerConfig
	Report ReportConfig
	SCC    SCCConfig

	Catalog *Catalog
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	Version     string
}

type LoggerConfig struct {
	ServiceName string
	Level       string
	Format      string
	LogFile     string
	MaxSize     int
	MaxBackups  int
	MaxAge      int
	Compress    bool
}

// ReportConfig describes where reports are staged and delivered.
// Bucket may be empty at load time; callers check it before each run.
type ReportConfig struct {
	Bucket      string
	Root        string
	TmpDir      string
	CatalogPath string
	CSVEnabled  bool
	Schedule    string
}

type SCCConfig struct {
	OrganizationID string
	PageRate       int
	PageBurst      int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Logger: LoggerConfig{
			ServiceName: getEnv("SERVICE_NAME", "scc-reporter"),
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			LogFile:     getEnv("LOG_FILE", ""),
			MaxSize:     getEnvAsInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups:  getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:      getEnvAsInt("LOG_MAX_AGE_DAYS", 14),
			Compress:    getEnvAsBool("LOG_COMPRESS", true),
		},
		Report: ReportConfig{
			Bucket:      getEnv("GCS_BUCKET", ""),
			Root:        getEnv("REPORT_ROOT", DefaultReportRoot),
			TmpDir:      getEnv("REPORT_TMP_DIR", os.TempDir()),
			CatalogPath: getEnv("REPORT_CATALOG_PATH", ""),
			CSVEnabled:  getEnvAsBool("REPORT_CSV_ENABLED", false),
			Schedule:    getEnv("REPORT_SCHEDULE", ""),
		},
		SCC: SCCConfig{
			OrganizationID: getEnv("SCC_ORGANIZATION_ID", ""),
			PageRate:       getEnvAsInt("SCC_PAGE_RATE", 4),
			PageBurst:      getEnvAsInt("SCC_PAGE_BURST", 8),
		},
	}

	catalog, err := LoadCatalog(cfg.Report.CatalogPath)
	if err != nil {
		return nil, err
	}
	// The env var wins over the catalog file so a deployment can retarget the org.
	if cfg.SCC.OrganizationID == "" {
		cfg.SCC.OrganizationID = catalog.OrganizationID
	}
	cfg.Catalog = catalog

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Report.Root == "" {
		return fmt.Errorf("REPORT_ROOT must not be empty")
	}

	if c.SCC.PageRate <= 0 {
		return fmt.Errorf("SCC_PAGE_RATE must be positive")
	}

	if c.Catalog == nil {
		return fmt.Errorf("report catalog is not loaded")
	}

	return c.Catalog.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
