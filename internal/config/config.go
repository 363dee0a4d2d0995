package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtside-app/courtside-api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	DBURL              string
	MigrationsPath     string
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	GatewayTimeout    time.Duration
	TeamListCacheTTL  time.Duration
	ChatStreamWorkers int

	SessiondBaseURL             string
	SessiondVerifyPath          string
	SessiondLookupPath          string
	SessiondTimeout             time.Duration
	SessiondTokenCacheTTL       time.Duration
	SessiondCircuitEnabled      bool
	SessiondCircuitFailureCount int
	SessiondCircuitOpenTimeout  time.Duration
	SessiondCircuitHalfOpenMax  int

	UptraceEnabled bool
	UptraceDSN     string

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(getEnv("GATEWAY_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEWAY_TIMEOUT: %w", err)
	}
	if gatewayTimeout <= 0 {
		return Config{}, fmt.Errorf("GATEWAY_TIMEOUT must be > 0")
	}

	teamListCacheTTL, err := time.ParseDuration(getEnv("TEAM_LIST_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_LIST_CACHE_TTL: %w", err)
	}
	if teamListCacheTTL <= 0 {
		return Config{}, fmt.Errorf("TEAM_LIST_CACHE_TTL must be > 0")
	}

	chatStreamWorkers, err := getEnvAsInt("CHAT_STREAM_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHAT_STREAM_WORKERS: %w", err)
	}
	if chatStreamWorkers < 1 {
		return Config{}, fmt.Errorf("CHAT_STREAM_WORKERS must be >= 1")
	}

	sessiondTimeout, err := time.ParseDuration(getEnv("SESSIOND_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_TIMEOUT: %w", err)
	}
	if sessiondTimeout <= 0 {
		return Config{}, fmt.Errorf("SESSIOND_TIMEOUT must be > 0")
	}

	sessiondTokenCacheTTL, err := time.ParseDuration(getEnv("SESSIOND_TOKEN_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_TOKEN_CACHE_TTL: %w", err)
	}
	if sessiondTokenCacheTTL < 0 {
		return Config{}, fmt.Errorf("SESSIOND_TOKEN_CACHE_TTL must be >= 0")
	}

	sessiondCircuitEnabled, err := strconv.ParseBool(getEnv("SESSIOND_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_CIRCUIT_ENABLED: %w", err)
	}
	sessiondCircuitFailureCount, err := getEnvAsInt("SESSIOND_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sessiondCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SESSIOND_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sessiondCircuitOpenTimeout, err := time.ParseDuration(getEnv("SESSIOND_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if sessiondCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SESSIOND_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	sessiondCircuitHalfOpenMax, err := getEnvAsInt("SESSIOND_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIOND_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sessiondCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("SESSIOND_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "courtside-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "migrations"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),

		GatewayTimeout:    gatewayTimeout,
		TeamListCacheTTL:  teamListCacheTTL,
		ChatStreamWorkers: chatStreamWorkers,

		SessiondBaseURL:             getEnv("SESSIOND_BASE_URL", "http://localhost:8081"),
		SessiondVerifyPath:          getEnv("SESSIOND_VERIFY_PATH", "/v1/tokens/verify"),
		SessiondLookupPath:          getEnv("SESSIOND_LOOKUP_PATH", "/v1/accounts/lookup"),
		SessiondTimeout:             sessiondTimeout,
		SessiondTokenCacheTTL:       sessiondTokenCacheTTL,
		SessiondCircuitEnabled:      sessiondCircuitEnabled,
		SessiondCircuitFailureCount: sessiondCircuitFailureCount,
		SessiondCircuitOpenTimeout:  sessiondCircuitOpenTimeout,
		SessiondCircuitHalfOpenMax:  sessiondCircuitHalfOpenMax,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
