package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMissingNamesAbsentAndEmpty(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		secrets Secrets
		want    []string
	}{
		{
			name:    "all present",
			secrets: Secrets{PracticumToken: "a", TelegramToken: "b", TelegramChatID: "1"},
			want:    nil,
		},
		{
			name:    "telegram token missing",
			secrets: Secrets{PracticumToken: "a", TelegramChatID: "1"},
			want:    []string{EnvTelegramToken},
		},
		{
			name:    "empty counts as missing",
			secrets: Secrets{PracticumToken: "  ", TelegramToken: "b", TelegramChatID: "1"},
			want:    []string{EnvPracticumToken},
		},
		{
			name:    "all missing, declaration order",
			secrets: Secrets{},
			want:    []string{EnvPracticumToken, EnvTelegramToken, EnvTelegramChatID},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.secrets.Missing()
			if len(got) != len(tt.want) {
				t.Fatalf("Missing() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Missing() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestChatID(t *testing.T) {
	t.Parallel()
	s := Secrets{TelegramChatID: " -100123456 "}
	id, err := s.ChatID()
	if err != nil {
		t.Fatalf("ChatID error: %v", err)
	}
	if id != -100123456 {
		t.Fatalf("ChatID = %d, want -100123456", id)
	}

	if _, err := (Secrets{TelegramChatID: "@channel"}).ChatID(); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvPracticumToken, "p")
	t.Setenv(EnvTelegramToken, "t")
	t.Setenv(EnvTelegramChatID, "7")

	s := FromEnv()
	if s.PracticumToken != "p" || s.TelegramToken != "t" || s.TelegramChatID != "7" {
		t.Fatalf("FromEnv = %+v", s)
	}
	if m := s.Missing(); len(m) != 0 {
		t.Fatalf("Missing() = %v, want none", m)
	}
}

func TestManagerDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	m := NewManager("")
	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Practicum.Endpoint != DefaultEndpoint {
		t.Fatalf("Endpoint = %q, want default", s.Practicum.Endpoint)
	}
	if s.HTTPTimeout() != 30*time.Second {
		t.Fatalf("HTTPTimeout = %v, want 30s", s.HTTPTimeout())
	}
	if !s.ConsoleEnabled() {
		t.Fatal("console logging should default to enabled")
	}
}

func TestManagerLoadsYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := `
practicum:
  http_timeout: 5s
poll:
  schedule: "10m"
telegram:
  thread_id: 7
logging:
  level: info
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	m := NewManager(path)
	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.HTTPTimeout() != 5*time.Second {
		t.Fatalf("HTTPTimeout = %v, want 5s", s.HTTPTimeout())
	}
	if s.Poll.Schedule != "10m" {
		t.Fatalf("Schedule = %q, want 10m", s.Poll.Schedule)
	}
	if s.Telegram.ThreadID != 7 {
		t.Fatalf("ThreadID = %d, want 7", s.Telegram.ThreadID)
	}
	// Sparse files still get defaults for omitted knobs.
	if s.Practicum.Endpoint != DefaultEndpoint {
		t.Fatalf("Endpoint = %q, want default", s.Practicum.Endpoint)
	}
}

func TestManagerRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("pol:\n  schedule: 10m\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	m := NewManager(path)
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
}
