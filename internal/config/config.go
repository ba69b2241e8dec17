package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Race      RaceConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int

	// PublicURL: базовый URL фронтенда. Используется для QR-ссылок
	// приглашения и как разрешенный origin для CORS/WebSocket.
	PublicURL string `mapstructure:"public_url"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis.
// Один инстанс: кэш лидерборда, presence-множества гонок и rate limiting
// не требуют кластера.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MaxRetries: количество повторов команды при сетевой ошибке (-1 отключает)
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff, MaxRetryBackoff: границы интервала между повторами (мс)
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`

	// WSTicketExpirySec: время жизни тикета WebSocket-подключения в секундах
	WSTicketExpirySec int `mapstructure:"wsTicketExpirySec"`
}

// WebSocketConfig содержит настройки WebSocket-подсистемы
type WebSocketConfig struct {
	Buffers BuffersConfig
	Ping    PingConfig
	Limits  LimitsConfig
}

// BuffersConfig содержит размеры буферов каналов хаба
type BuffersConfig struct {
	ClientSendBuffer int
	BroadcastBuffer  int
	RegisterBuffer   int
	UnregisterBuffer int
}

// PingConfig содержит настройки пингов
type PingConfig struct {
	Interval int
	Timeout  int
}

// LimitsConfig содержит ограничения соединений
type LimitsConfig struct {
	MaxMessageSize      int
	WriteWait           int
	PongWait            int
	MaxConnectionsPerIP int
}

// RaceConfig содержит настройки гоночной подсистемы
type RaceConfig struct {
	// MaxPlayers: максимум участников в одной гонке. 0 = значение по умолчанию.
	MaxPlayers int `mapstructure:"max_players"`

	// CodeAttempts: максимум попыток подбора уникального кода гонки.
	CodeAttempts int `mapstructure:"code_attempts"`

	// CodeLength: длина числового кода гонки.
	CodeLength int `mapstructure:"code_length"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load читает конфигурацию из yaml-файла и переменных окружения.
// Env-переменные привязываются явно и перекрывают значения файла,
// поэтому контейнерное окружение может обойтись вообще без файла.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // отдельный экземпляр, без глобального состояния viper

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("jwt.wsTicketExpirySec", 60)
	vip.SetDefault("race.max_players", 5)
	vip.SetDefault("race.code_attempts", 100)
	vip.SetDefault("race.code_length", 4)
	vip.SetDefault("websocket.buffers.clientsendbuffer", 64)
	vip.SetDefault("websocket.buffers.broadcastbuffer", 128)
	vip.SetDefault("websocket.buffers.registerbuffer", 32)
	vip.SetDefault("websocket.buffers.unregisterbuffer", 32)
	vip.SetDefault("websocket.ping.interval", 30)
	vip.SetDefault("websocket.ping.timeout", 60)
	vip.SetDefault("websocket.limits.maxmessagesize", 4096)
	vip.SetDefault("websocket.limits.writewait", 10)
	vip.SetDefault("websocket.limits.pongwait", 60)
	vip.SetDefault("websocket.limits.maxconnectionsperip", 20)

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")
	vip.BindEnv("jwt.wsTicketExpirySec", "JWT_WSTICKETEXPIRYSEC")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.public_url", "SERVER_PUBLIC_URL")

	vip.BindEnv("race.max_players", "RACE_MAX_PLAYERS")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Отсутствие файла не фатально: env-переменных и умолчаний достаточно
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("[Config] Файл '%s' не найден, используются env/умолчания", configPath)
			} else {
				log.Printf("[Config] Предупреждение: не удалось прочитать '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Дамп конфигурации полезен при отладке, но не в production
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("[Config] Database: %s@%s:%s/%s (sslmode=%s)",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)
		log.Printf("[Config] Redis: %s (db %d)", cfg.Redis.Addr, cfg.Redis.DB)
		log.Printf("[Config] Server port: %s, public URL: %s", cfg.Server.Port, cfg.Server.PublicURL)
		log.Printf("[Config] JWT: expiration %dh, ws ticket %ds, secret set: %t",
			cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec, cfg.JWT.Secret != "")
		log.Printf("[Config] Race: max players %d, code length %d", cfg.Race.MaxPlayers, cfg.Race.CodeLength)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_* env vars)")
	}
	// Пароль БД обязателен вне debug-режима
	if os.Getenv("GIN_MODE") == "release" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
	}

	return &cfg, nil
}
