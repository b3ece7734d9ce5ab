package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Port         string
	GRPCPort     string
	Production   bool
	ClientOrigin string
	TokenSecret  string
	StrictStock  bool
	LogLevel     string

	StorageDriver string
	DBUser        string
	DBPass        string
	DBHost        string
	DBPort        string
	DBName        string
	RedisAddr     string
}

// Load reads the configuration from the environment. Variables in a .env file
// in the working directory are applied first without overriding real ones.
func Load() *Config {
	_ = godotenv.Load()

	env := getenv("APP_ENV", os.Getenv("NODE_ENV"))

	return &Config{
		Port:         getenv("PORT", "5000"),
		GRPCPort:     getenv("GRPC_PORT", "50051"),
		Production:   env == "production",
		ClientOrigin: getenv("CLIENT_ORIGIN", "http://localhost:5173"),
		TokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		StrictStock:  getbool("STRICT_STOCK", false),
		LogLevel:     getenv("LOG_LEVEL", "info"),

		StorageDriver: getenv("STORAGE_DRIVER", DriverMySQL),
		DBUser:        getenv("DB_USER", "root"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBName:        getenv("DB_NAME", "nobabdine"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
	}
}

// MySQLDSN builds the driver DSN with time parsing enabled.
func (c *Config) MySQLDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPass
	mc.Net = "tcp"
	mc.Addr = c.DBHost + ":" + c.DBPort
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
