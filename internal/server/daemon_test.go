package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/internal/server"
	"github.com/zahedbri/e107/pkg/ajax"
)

func TestEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	socketPath := filepath.Join(tmpDir, "e107d.sock")
	actionsDir := filepath.Join(tmpDir, "actions")
	os.MkdirAll(actionsDir, 0755)
	err := os.WriteFile(filepath.Join(actionsDir, "page.lua"), []byte(`
		e107.on("save", function(req)
			e107.alert("Saved " .. req.title)
		end)
	`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg := server.Config{
		Server: server.ServerConfig{
			Socket: socketPath,
		},
		Web: server.WebConfig{
			Listen: "127.0.0.1:0",
		},
		NATS: server.NATSConfig{
			DataDir: filepath.Join(tmpDir, "nats"),
		},
		Actions: server.ActionsConfig{
			Dir: actionsDir,
		},
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	d := server.NewDaemon(cfg, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run() }()

	// Wait for the control socket to appear.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if _, err := os.Stat(socketPath); err != nil {
		t.Fatal("socket did not appear in time")
	}

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(ctx, "unix", socketPath)
			},
		},
	}

	resp, err := client.Get("http://e107d/api/v1/status")
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	var status ajax.StatusResponse
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()

	if status.Status != "ok" {
		t.Fatalf("expected status ok, got %s", status.Status)
	}
	if status.ScriptCount != 1 {
		t.Fatalf("expected 1 script, got %d", status.ScriptCount)
	}

	resp, err = client.Get("http://e107d/api/v1/actions")
	if err != nil {
		t.Fatalf("actions request: %v", err)
	}
	var scripts ajax.ScriptsResponse
	json.NewDecoder(resp.Body).Decode(&scripts)
	resp.Body.Close()

	if len(scripts.Scripts) != 1 || scripts.Scripts[0].Name != "page" {
		t.Fatalf("scripts = %+v", scripts)
	}
	if len(scripts.Scripts[0].Actions) != 1 || scripts.Scripts[0].Actions[0] != "save" {
		t.Fatalf("actions = %v", scripts.Scripts[0].Actions)
	}

	d.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("daemon error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not shut down in time")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := server.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Web.Listen != "127.0.0.1:7680" {
		t.Errorf("web.listen = %q", cfg.Web.Listen)
	}
	if !cfg.Actions.HotReload {
		t.Error("actions.hot_reload default should be true")
	}
	if cfg.Actions.HandlerTimeout != 30*time.Second {
		t.Errorf("handler_timeout = %s", cfg.Actions.HandlerTimeout)
	}
	if cfg.Server.Socket == "" {
		t.Error("server.socket default not set")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e107.toml")
	body := strings.Join([]string{
		`[web]`,
		`listen = "0.0.0.0:8080"`,
		`username = "admin"`,
		``,
		`[actions]`,
		`dir = "/srv/e107/actions"`,
		`hot_reload = false`,
		``,
		`[security]`,
		`batch_secret = "hush"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := server.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Web.Listen != "0.0.0.0:8080" || cfg.Web.Username != "admin" {
		t.Errorf("web = %+v", cfg.Web)
	}
	if cfg.Actions.Dir != "/srv/e107/actions" || cfg.Actions.HotReload {
		t.Errorf("actions = %+v", cfg.Actions)
	}
	if cfg.Security.BatchSecret != "hush" {
		t.Errorf("security = %+v", cfg.Security)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("E107_BATCH_SECRET", "from-env")

	cfg, err := server.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Security.BatchSecret != "from-env" {
		t.Errorf("batch_secret = %q, want from-env", cfg.Security.BatchSecret)
	}
}
