package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	DBURL                         string
	DBDisablePreparedBinary       bool
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	HeimdallBaseURL               string
	HeimdallIntrospectPath        string
	HeimdallAdminKey              string
	HeimdallTimeout               time.Duration
	HeimdallCacheTTL              time.Duration
	HeimdallCircuitEnabled        bool
	HeimdallCircuitFailureCount   int
	HeimdallCircuitOpenTimeout    time.Duration
	HeimdallCircuitHalfOpenMaxReq int
	FCMEnabled                    bool
	FCMBaseURL                    string
	FCMServerKey                  string
	FCMTimeout                    time.Duration
	FCMMaxRetries                 int
	FCMCircuitEnabled             bool
	FCMCircuitFailureCount        int
	FCMCircuitOpenTimeout         time.Duration
	FCMCircuitHalfOpenMaxReq      int
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	InternalJobToken              string
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
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

	fcmEnabled, err := strconv.ParseBool(getEnv("FCM_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_ENABLED: %w", err)
	}
	fcmServerKey := strings.TrimSpace(getEnv("FCM_SERVER_KEY", ""))
	if fcmEnabled && fcmServerKey == "" {
		return Config{}, fmt.Errorf("FCM_SERVER_KEY is required when FCM_ENABLED=true")
	}
	fcmTimeout, err := time.ParseDuration(getEnv("FCM_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_TIMEOUT: %w", err)
	}
	if fcmTimeout <= 0 {
		return Config{}, fmt.Errorf("FCM_TIMEOUT must be > 0")
	}
	fcmMaxRetries, err := getEnvAsInt("FCM_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_MAX_RETRIES: %w", err)
	}
	if fcmMaxRetries < 0 {
		return Config{}, fmt.Errorf("FCM_MAX_RETRIES must be >= 0")
	}
	fcmCircuitEnabled, err := strconv.ParseBool(getEnv("FCM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_CIRCUIT_ENABLED: %w", err)
	}
	fcmCircuitFailureCount, err := getEnvAsInt("FCM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if fcmCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FCM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	fcmCircuitOpenTimeout, err := time.ParseDuration(getEnv("FCM_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if fcmCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FCM_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	fcmCircuitHalfOpenMaxReq, err := getEnvAsInt("FCM_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FCM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if fcmCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FCM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "castncatch-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      getEnv("DB_URL", ""),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		HeimdallBaseURL:            getEnv("HEIMDALL_BASE_URL", "http://localhost:8081"),
		HeimdallIntrospectPath:     getEnv("HEIMDALL_INTROSPECT_PATH", "/v1/auth/introspect"),
		HeimdallAdminKey:           getEnv("HEIMDALL_ADMIN_KEY", ""),
		FCMEnabled:                 fcmEnabled,
		FCMBaseURL:                 getEnv("FCM_BASE_URL", "https://fcm.googleapis.com"),
		FCMServerKey:               fcmServerKey,
		FCMTimeout:                 fcmTimeout,
		FCMMaxRetries:              fcmMaxRetries,
		FCMCircuitEnabled:          fcmCircuitEnabled,
		FCMCircuitFailureCount:     fcmCircuitFailureCount,
		FCMCircuitOpenTimeout:      fcmCircuitOpenTimeout,
		FCMCircuitHalfOpenMaxReq:   fcmCircuitHalfOpenMaxReq,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	heimdallTimeout, err := time.ParseDuration(getEnv("HEIMDALL_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_TIMEOUT: %w", err)
	}

	heimdallCacheTTL, err := time.ParseDuration(getEnv("HEIMDALL_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_CACHE_TTL: %w", err)
	}
	if heimdallCacheTTL <= 0 {
		return Config{}, fmt.Errorf("HEIMDALL_CACHE_TTL must be > 0")
	}

	heimdallCircuitEnabled, err := strconv.ParseBool(getEnv("HEIMDALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_CIRCUIT_ENABLED: %w", err)
	}

	heimdallCircuitFailureCount, err := getEnvAsInt("HEIMDALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if heimdallCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("HEIMDALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	heimdallCircuitOpenTimeout, err := time.ParseDuration(getEnv("HEIMDALL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if heimdallCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("HEIMDALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	heimdallCircuitHalfOpenMaxReq, err := getEnvAsInt("HEIMDALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse HEIMDALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if heimdallCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("HEIMDALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.HeimdallTimeout = heimdallTimeout
	cfg.HeimdallCacheTTL = heimdallCacheTTL
	cfg.HeimdallCircuitEnabled = heimdallCircuitEnabled
	cfg.HeimdallCircuitFailureCount = heimdallCircuitFailureCount
	cfg.HeimdallCircuitOpenTimeout = heimdallCircuitOpenTimeout
	cfg.HeimdallCircuitHalfOpenMaxReq = heimdallCircuitHalfOpenMaxReq
	cfg.LogLevel = logLevel

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
