package config

import (
	"os"
	"strconv"
	"time"

	"goose_server/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Identifier reserved for the built-in auto-player.
	BotUserID int64
	// Think-time before the bot rolls on its turn.
	BotMoveDelay time.Duration

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

// Load reads configuration from the environment (.env is honored when present).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	botUserID := int64(-1)
	if v := os.Getenv("BOT_USER_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n != 0 {
			botUserID = n
		}
	}

	botMoveDelay := time.Second
	if v := os.Getenv("BOT_MOVE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			botMoveDelay = time.Duration(n) * time.Millisecond
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	gameRateLimit := 120
	if v := os.Getenv("GAME_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			gameRateLimit = n
		}
	}

	gameRateWindow := time.Minute
	if v := os.Getenv("GAME_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			gameRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:        port,
		DatabaseURL:    dbURL,
		JWTSecret:      jwtSecret,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		BotUserID:      botUserID,
		BotMoveDelay:   botMoveDelay,
		APIRateLimit:   apiRateLimit,
		APIRateWindow:  apiRateWindow,
		GameRateLimit:  gameRateLimit,
		GameRateWindow: gameRateWindow,
	}
}
