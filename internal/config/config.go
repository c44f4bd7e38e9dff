package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Driver string
	// Seed loads the demo catalog into an empty store on startup.
	Seed bool
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig with an empty Addr disables caching, idempotency keys, rate
// limiting and pub/sub notifications.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// AMQPConfig with an empty URL disables the RabbitMQ publisher.
type AMQPConfig struct {
	URL   string
	Queue string
}

func (c AMQPConfig) Enabled() bool { return c.URL != "" }

type BookingConfig struct {
	AllowOverbooking bool
	// RateLimit is the number of bookings one client may create per minute.
	RateLimit int
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := intEnv("SERVER_PORT", 3001)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: stringEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}

	seed, err := boolEnv("SEED_CATALOG", true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storeCfg := StoreConfig{
		Driver: strings.ToLower(stringEnv("STORE_DRIVER", DriverMemory)),
		Seed:   seed,
	}

	var postgresCfg PostgresConfig

	switch storeCfg.Driver {
	case DriverMemory:
	case DriverPostgres:
		postgresCfg, err = postgresFromEnv()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		return nil, fmt.Errorf("%s: unknown STORE_DRIVER %q", op, storeCfg.Driver)
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	amqpCfg := AMQPConfig{
		URL:   os.Getenv("AMQP_URL"),
		Queue: stringEnv("AMQP_QUEUE", "cinebook.bookings"),
	}

	allowOverbooking, err := boolEnv("BOOKING_ALLOW_OVERBOOKING", false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimit, err := intEnv("BOOKING_RATE_LIMIT", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookingCfg := BookingConfig{
		AllowOverbooking: allowOverbooking,
		RateLimit:        rateLimit,
	}

	return &Config{
		Server:   serverCfg,
		Store:    storeCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		AMQP:     amqpCfg,
		Booking:  bookingCfg,
	}, nil
}

func postgresFromEnv() (PostgresConfig, error) {
	port, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		return PostgresConfig{}, errors.New("missing POSTGRES_USER")
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		return PostgresConfig{}, errors.New("missing POSTGRES_PASSWORD")
	}

	name := os.Getenv("POSTGRES_DB")
	if name == "" {
		return PostgresConfig{}, errors.New("missing POSTGRES_DB")
	}

	return PostgresConfig{
		User:     user,
		Password: password,
		Name:     name,
		Host:     stringEnv("POSTGRES_HOST", "localhost"),
		Port:     port,
		SSLMode:  stringEnv("POSTGRES_SSLMODE", "disable"),
	}, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}

	return v, nil
}
