package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported values for DBDRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBDriver    string `json:"dbdriver"`
	DBHost      string `json:"dbhost"`
	DBPort      uint16 `json:"dbport"`
	DBName      string `json:"dbname"`
	DBUSER      string `json:"dbuser"`
	DBPass      string `json:"dbpass"`
	DatabaseURL string `json:"database_url"`

	MongoURI      string `json:"mongodb_uri"`
	MongoDatabase string `json:"mongodb_database"`

	UploadDir string `json:"upload_dir"`
	PDFDir    string `json:"pdf_dir"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	DoctorCacheTTL  time.Duration `json:"doctor_cache_ttl"`
	LoginRateLimit  int           `json:"login_rate_limit"`
	LoginRateWindow time.Duration `json:"login_rate_window"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env is fine, the process environment may already carry everything.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}

		appPort, err := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		if err != nil || appPort == 0 {
			appPort = 5000
		}
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		rateLimit, _ := strconv.Atoi(os.Getenv("LOGIN_RATE_LIMIT"))

		config = &Config{
			AppName:         getEnv("APPNAME", "clinic-records"),
			AppEnv:          os.Getenv("APPENV"),
			AppPort:         uint16(appPort),
			GinMode:         getEnv("GINMODE", "release"),
			DBDriver:        getEnv("DBDRIVER", DriverMySQL),
			DBHost:          os.Getenv("DBHOST"),
			DBPort:          uint16(dbPort),
			DBName:          os.Getenv("DBNAME"),
			DBUSER:          os.Getenv("DBUSER"),
			DBPass:          os.Getenv("DBPASS"),
			DatabaseURL:     os.Getenv("DATABASE_URL"),
			MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:   getEnv("MONGODB_DATABASE", "clinic"),
			UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
			PDFDir:          getEnv("PDF_DIR", "pdfs"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			LogFormat:       getEnv("LOG_FORMAT", "json"),
			DoctorCacheTTL:  parseDuration(os.Getenv("DOCTOR_CACHE_TTL"), 10*time.Minute),
			LoginRateLimit:  rateLimit,
			LoginRateWindow: parseDuration(os.Getenv("LOGIN_RATE_WINDOW"), 0),
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return d
}

// Dialector picks the gorm dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case DriverPostgres:
		dsn := c.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				c.DBHost, c.DBPort, c.DBUSER, c.DBPass, c.DBName)
		}
		return postgres.Open(dsn), nil
	case DriverSQLite:
		dsn := c.DatabaseURL
		if dsn == "" {
			dsn = c.DBName
		}
		return sqlite.Open(dsn), nil
	case DriverMySQL, "":
		dsn := c.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.DBUSER, c.DBPass, c.DBHost, c.DBPort, c.DBName)
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", c.DBDriver)
	}
}

// ConnectDatabase opens the SQL record store. Under APPENV=test it always uses a
// shared in-memory SQLite database.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()

	var dialector gorm.Dialector
	if os.Getenv("APPENV") == "test" || cfg.AppEnv == "test" {
		dialector = sqlite.Open("file::memory:?cache=shared")
	} else {
		d, err := cfg.Dialector()
		if err != nil {
			return nil, err
		}
		dialector = d
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}
