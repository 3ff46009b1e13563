package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultEndpoint is the homework status API this bot tracks.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const defaultHTTPTimeout = 30 * time.Second

// Settings are the non-secret knobs, optionally loaded from a YAML (or JSON)
// file and hot-reloadable. Secrets stay in the environment.
type Settings struct {
	Practicum PracticumSettings `json:"practicum"`
	Telegram  TelegramSettings  `json:"telegram"`
	Poll      PollSettings      `json:"poll"`
	Logging   LoggingSettings   `json:"logging"`
}

type PracticumSettings struct {
	Endpoint string `json:"endpoint,omitempty"`
	// HTTPTimeout is a Go duration string (e.g. "10s", "1m").
	HTTPTimeout string `json:"http_timeout,omitempty"`
}

type TelegramSettings struct {
	// ThreadID targets a forum topic inside the destination chat (0 = none).
	ThreadID int `json:"thread_id,omitempty"`
}

type PollSettings struct {
	// Schedule is either a Go duration ("600s") or a cron expression
	// ("*/10 * * * *"). Empty means the 600s default.
	Schedule string `json:"schedule,omitempty"`
}

type LoggingSettings struct {
	Level   string      `json:"level,omitempty"`
	Console *bool       `json:"console,omitempty"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	console := true
	return Settings{
		Practicum: PracticumSettings{
			Endpoint:    DefaultEndpoint,
			HTTPTimeout: defaultHTTPTimeout.String(),
		},
		Logging: LoggingSettings{Level: "debug", Console: &console},
	}
}

// Normalize fills gaps left by a sparse settings file.
func (s *Settings) Normalize() {
	if s.Practicum.Endpoint == "" {
		s.Practicum.Endpoint = DefaultEndpoint
	}
	if s.Practicum.HTTPTimeout == "" {
		s.Practicum.HTTPTimeout = defaultHTTPTimeout.String()
	}
	if s.Logging.Level == "" {
		s.Logging.Level = "debug"
	}
	if s.Logging.Console == nil {
		console := true
		s.Logging.Console = &console
	}
}

// HTTPTimeout parses the client timeout, falling back to the default on a
// bad or missing value.
func (s Settings) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(s.Practicum.HTTPTimeout)
	if err != nil || d <= 0 {
		return defaultHTTPTimeout
	}
	return d
}

// ConsoleEnabled reports whether console logging is on (default true).
func (s Settings) ConsoleEnabled() bool {
	return s.Logging.Console == nil || *s.Logging.Console
}

// decodeStrict rejects unknown fields so typos in the settings file are
// caught at load/reload time instead of being silently ignored.
func decodeStrict(jsonBytes []byte, out *Settings) error {
	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("settings decode: %w", err)
	}
	return nil
}
