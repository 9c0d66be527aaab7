package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var (
	ErrUnknownStorage     = errors.New("unknown storage type")
	ErrInvalidIdleTimeout = errors.New("session idle timeout must be positive")
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string  `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis   `yaml:"redis"`
	Board      Board   `yaml:"board"`
	Socket     Socket  `yaml:"socket"`
	Session    Session `yaml:"session"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"REDIS_SESSION_TTL" env-default:"24h"`
}

type Board struct {
	GridSize  int `yaml:"grid-size" env:"BOARD_GRID_SIZE" env-default:"3"`
	BoxSize   int `yaml:"box-size" env:"BOARD_BOX_SIZE" env-default:"200"`
	Border    int `yaml:"border" env:"BOARD_BORDER" env-default:"20"`
	LineWidth int `yaml:"line-width" env:"BOARD_LINE_WIDTH" env-default:"5"`
}

type Session struct {
	IdleTimeout time.Duration `yaml:"idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
}

type Socket struct {
	SendBuffer   int           `yaml:"send-buffer" env:"SOCKET_SEND_BUFFER" env-default:"64"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"SOCKET_WRITE_TIMEOUT" env-default:"10s"`
}

// Load - reads the yaml file at path, or only the environment when there is no such
// file. A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err = cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate - checks the values cleanenv cannot.
func (that *Config) Validate() error {
	if that.Storage != StorageMemory && that.Storage != StorageRedis {
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}

	if that.Board.GridSize < 1 {
		return fmt.Errorf("%w: got %d", board.ErrInvalidGridSize, that.Board.GridSize)
	}

	if err := that.Board.Geometry().Validate(); err != nil {
		return err
	}

	if that.Session.IdleTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidIdleTimeout, that.Session.IdleTimeout)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Geometry - returns the pixel layout configured for the board.
func (that *Board) Geometry() board.Geometry {
	return board.Geometry{
		BoxSize:   that.BoxSize,
		Border:    that.Border,
		LineWidth: that.LineWidth,
	}
}
