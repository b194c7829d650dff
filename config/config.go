package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sakshamg567/sketchguess/logger"
)

type Config struct {
	ServerAddr   string
	SocketIOAddr string
	CORSOrigins  string

	RotationDelay time.Duration
	WordBankPath  string

	PingInterval     time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ClientSendBuffer int
	RelayRate        float64
	RelayBurst       int

	LogLevel string
	LogJSON  bool
}

func Load() *Config {
	return &Config{
		ServerAddr:   str("SERVER_ADDR", ":3000"),
		SocketIOAddr: optional("SOCKETIO_ADDR", ":5000"),
		CORSOrigins:  str("CORS_ORIGINS", "*"),

		RotationDelay: duration("ROTATION_DELAY", 3*time.Second),
		WordBankPath:  os.Getenv("WORD_BANK_PATH"),

		PingInterval:     duration("PING_INTERVAL", 54*time.Second),
		ReadTimeout:      duration("READ_TIMEOUT", 60*time.Second),
		WriteTimeout:     duration("WRITE_TIMEOUT", 10*time.Second),
		ClientSendBuffer: integer("CLIENT_SEND_BUFFER", 256),
		RelayRate:        float("RELAY_RATE", 60),
		RelayBurst:       integer("RELAY_BURST", 120),

		LogLevel: str("LOG_LEVEL", "info"),
		LogJSON:  boolean("LOG_JSON", false),
	}
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optional is like str but an explicitly empty value disables the setting.
func optional(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return v
}

func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn("config: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Warn("config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		logger.Warn("config: invalid %s=%q, using %g", key, v, def)
		return def
	}
	return f
}

func boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("config: invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}
