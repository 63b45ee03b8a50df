package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./harmony.db" {
			t.Errorf("expected database path ./harmony.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Catalog.BaseURL != "https://saavn.me" {
			t.Errorf("expected catalog base url https://saavn.me, got %s", config.Catalog.BaseURL)
		}

		if config.Client.Volume != 0.7 {
			t.Errorf("expected client volume 0.7, got %v", config.Client.Volume)
		}

		if config.Client.Token != "" {
			t.Errorf("expected empty default token, got %q", config.Client.Token)
		}

		if config.Catalog.Timeout() != 15*time.Second {
			t.Errorf("expected catalog timeout 15s, got %v", config.Catalog.Timeout())
		}

		if got := config.Server.Addr(); got != "127.0.0.1:5000" {
			t.Errorf("expected addr 127.0.0.1:5000, got %s", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[client]
server_url = "http://music.local"
token = "abc"
volume = 0.25
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Client.Token != "abc" || config.Client.Volume != 0.25 {
			t.Errorf("unexpected client config: %+v", config.Client)
		}

		if config.Catalog.BaseURL != "https://saavn.me" {
			t.Errorf("missing keys should keep defaults, got catalog base url %q", config.Catalog.BaseURL)
		}
	})

	t.Run("LoadConfig Errors", func(t *testing.T) {
		tmpDir := t.TempDir()

		tt := []struct {
			name    string
			content string
			want    error
		}{
			{name: "missing file", want: ErrMissingConfig},
			{name: "bad toml", content: "[server\nport = ", want: ErrInvalidConfig},
			{name: "volume out of range", content: "[client]\nvolume = 3.0\n", want: ErrInvalidConfig},
			{name: "port out of range", content: "[server]\nport = 70000\n", want: ErrInvalidConfig},
		}

		for i, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(tmpDir, "config"+string(rune('a'+i))+".toml")
				if tc.content != "" {
					if err := os.WriteFile(configPath, []byte(tc.content), 0644); err != nil {
						t.Fatalf("failed to write test config: %v", err)
					}
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})
}
