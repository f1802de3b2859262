package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
telegram:
  token: "123:abc"
  run_mode: longpoll
review:
  chat_id: -1001234567890
form:
  session_ttl_minutes: 30
database:
  host: localhost
  port: "5432"
  user: hrbot
  name: hrbot
  sslmode: disable
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Review.ChatID != -1001234567890 {
		t.Errorf("review chat = %d", cfg.Review.ChatID)
	}
	if cfg.Form.SessionTTLMinutes != 30 {
		t.Errorf("ttl = %d", cfg.Form.SessionTTLMinutes)
	}
	if cfg.Core.Telegram.RunMode != "longpoll" {
		t.Errorf("run mode = %q", cfg.Core.Telegram.RunMode)
	}
	if cfg.CoreConfig() != &cfg.Core {
		t.Error("CoreConfig does not expose the embedded core section")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host = %q", cfg.Database.Host)
	}
}

func TestLoadConfigRequiresReviewChat(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("config without review.chat_id accepted")
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	body := `
review:
  chat_id: 1
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("config without telegram.token accepted")
	}
}

func TestLoadConfigRejectsNegativeTTL(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
review:
  chat_id: 1
form:
  session_ttl_minutes: -5
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("negative session ttl accepted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
