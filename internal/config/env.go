package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Required environment variables. These are secrets (or tied to secrets) and
// are never read from the settings file.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Secrets holds the credentials the bot cannot run without.
type Secrets struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
}

// FromEnv reads the required variables from the process environment.
// It never fails; use Missing to decide whether startup may proceed.
func FromEnv() Secrets {
	return Secrets{
		PracticumToken: os.Getenv(EnvPracticumToken),
		TelegramToken:  os.Getenv(EnvTelegramToken),
		TelegramChatID: os.Getenv(EnvTelegramChatID),
	}
}

// Missing returns the names of required variables that are absent or empty,
// in declaration order.
func (s Secrets) Missing() []string {
	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{EnvPracticumToken, s.PracticumToken},
		{EnvTelegramToken, s.TelegramToken},
		{EnvTelegramChatID, s.TelegramChatID},
	} {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}

// ChatID parses the destination chat identifier.
func (s Secrets) ChatID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s.TelegramChatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer chat id: %w", EnvTelegramChatID, err)
	}
	return id, nil
}
