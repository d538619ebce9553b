package config

import (
	"os"
	"strconv"
	"strings"
)

// HTTPConfig holds listener settings.
// DualStack switches the Fiber network from tcp4 to tcp so the listener
// accepts IPv6 peers; carrier NAT64 paths fail against a v4-only socket.
type HTTPConfig struct {
	Host        string
	Port        string
	DualStack   bool
	FrontendURL string
}

// CORSConfig holds the browser cross-origin policy knobs.
// AllowAllOrigins switches the middleware to echo the caller's origin
// instead of a static allowlist, which keeps credentialed requests working.
type CORSConfig struct {
	AllowAllOrigins  bool
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAgeSec        int
}

// MobileConfig gates the mobile compatibility middleware.
type MobileConfig struct {
	CompatEnabled bool
}

// HealthConfig bounds the /health DB ping and the background probe cadence.
type HealthConfig struct {
	TimeoutSec  int
	IntervalSec int
}

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, is used verbatim and the component fields are ignored;
// managed platforms inject a single DATABASE_URL.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	JobTypeTTLSec int
}

// AuthConfig holds token issuance and login throttle settings.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMin     int
	LoginRatePerMin float64
	LoginBurst      int
}

// NotifyConfig holds the outbound message provider settings.
// An empty APIURL disables SMS/WhatsApp delivery; in-app rows still persist.
type NotifyConfig struct {
	APIURL             string
	APIKey             string
	SMSSender          string
	WhatsAppSender     string
	DefaultCountryCode string
}

// GeoConfig holds the two site coordinates and the geofence radius used to
// flag route deviations on dispatch tracking.
type GeoConfig struct {
	FenceRadiusKM float64
	EstateLat     float64
	EstateLon     float64
	PlantLat      float64
	PlantLon      float64
}

// FaceConfig holds the verification threshold for face similarity.
type FaceConfig struct {
	MatchThreshold float64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Timezone string
	HTTP     HTTPConfig
	CORS     CORSConfig
	Mobile   MobileConfig
	Health   HealthConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Notify   NotifyConfig
	Geo      GeoConfig
	Face     FaceConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Timezone: getEnv("APP_TZ", "UTC"),
		HTTP: HTTPConfig{
			Host:        getEnv("HOST", ""),
			Port:        getEnv("PORT", "8080"), // default only for non-sensitive value
			DualStack:   getEnvBool("HTTP_DUAL_STACK", true),
			FrontendURL: getEnv("FRONTEND_URL", ""),
		},
		CORS: CORSConfig{
			AllowAllOrigins:  getEnvBool("CORS_ALLOW_ALL_ORIGINS", false),
			AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", nil),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAgeSec:        getEnvInt("CORS_MAX_AGE_SEC", 3600),
		},
		Mobile: MobileConfig{
			CompatEnabled: getEnvBool("MOBILE_COMPAT_ENABLED", true),
		},
		Health: HealthConfig{
			TimeoutSec:  getEnvInt("HEALTH_TIMEOUT_SEC", 5),
			IntervalSec: getEnvInt("HEALTH_INTERVAL_SEC", 30),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "require"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "agro-media"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvInt("REDIS_DB", 0),
			JobTypeTTLSec: getEnvInt("JOB_TYPE_CACHE_TTL_SEC", 300),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTLMin:     getEnvInt("JWT_TTL_MIN", 1440),
			LoginRatePerMin: getEnvFloat("LOGIN_RATE_PER_MIN", 30),
			LoginBurst:      getEnvInt("LOGIN_BURST", 10),
		},
		Notify: NotifyConfig{
			APIURL:             getEnv("NOTIFY_API_URL", ""),
			APIKey:             getEnv("NOTIFY_API_KEY", ""),
			SMSSender:          getEnv("NOTIFY_SMS_SENDER", ""),
			WhatsAppSender:     getEnv("NOTIFY_WHATSAPP_SENDER", ""),
			DefaultCountryCode: getEnv("NOTIFY_DEFAULT_COUNTRY_CODE", "+91"),
		},
		Geo: GeoConfig{
			FenceRadiusKM: getEnvFloat("GEOFENCE_RADIUS_KM", 5),
			EstateLat:     getEnvFloat("ESTATE_LAT", 8.2833),
			EstateLon:     getEnvFloat("ESTATE_LON", 77.3167),
			PlantLat:      getEnvFloat("PLANT_LAT", 8.5241),
			PlantLon:      getEnvFloat("PLANT_LON", 76.9366),
		},
		Face: FaceConfig{
			MatchThreshold: getEnvFloat("FACE_MATCH_THRESHOLD", 0.6),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
