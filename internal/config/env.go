package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3100"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	// APIKey enables /api/tasks and /api/report when set.
	APIKey   string `envconfig:"API_KEY"`
	Timezone string `envconfig:"TIMEZONE" default:"Local"`
	// RepliesFile replaces the built-in chat replies with a YAML rule list.
	RepliesFile string `envconfig:"REPLIES_FILE"`
}

type TelegramEnv struct {
	Token         string        `envconfig:"TELEGRAM_TOKEN"`
	TokenFile     string        `envconfig:"TELEGRAM_TOKEN_FILE" default:"token.txt"`
	Mode          string        `envconfig:"TELEGRAM_MODE" default:"polling"`
	APIEndpoint   string        `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org"`
	PollTimeout   time.Duration `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"30s"`
	WebhookSecret string        `envconfig:"TELEGRAM_WEBHOOK_SECRET"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".taskbot/data"`
	// SQLite settings (used when Type == "sqlite")
	SQLitePath string `envconfig:"SQLITE_PATH" default:".taskbot/taskbot.db"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"taskbot/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
	// WatchState reloads documents edited on disk. Local storage only.
	WatchState bool `envconfig:"WATCH_STATE" default:"true"`
}

type Env struct {
	BaseEnv
	TelegramEnv
	StorageEnv
}

const namespace = "TASKBOT"

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

var (
	ErrNoToken         = errors.New("telegram token is not configured")
	ErrNoWebhookSecret = errors.New("webhook mode needs a secret token")
)

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	switch env.TelegramEnv.Mode {
	case ModePolling:
	case ModeWebhook:
		// Without the secret anyone could post updates with a forged sender.
		if env.WebhookSecret == "" {
			return nil, fmt.Errorf("%w: set %s_TELEGRAM_WEBHOOK_SECRET", ErrNoWebhookSecret, namespace)
		}
	default:
		return nil, fmt.Errorf("invalid %s_TELEGRAM_MODE %q", namespace, env.TelegramEnv.Mode)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

// Location is the zone that decides what "today" means for deadlines.
func (e *BaseEnv) Location() (*time.Location, error) {
	if e.Timezone == "" || e.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid %s_TIMEZONE: %w", namespace, err)
	}
	return loc, nil
}

// BotToken returns TELEGRAM_TOKEN, or the first line of TELEGRAM_TOKEN_FILE
// when the variable is empty.
func (e *TelegramEnv) BotToken() (string, error) {
	if e.Token != "" {
		return e.Token, nil
	}
	if e.TokenFile == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(e.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoToken, e.TokenFile)
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoToken, e.TokenFile)
	}
	return token, nil
}
