package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newApp(t *testing.T, cfg string) *App {
	t.Helper()
	app, err := NewApp(Options{ConfigPath: writeConfig(t, cfg), LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNewApp_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  string
	}{
		{"memory", "store:\n  backend: memory\n"},
		{"file", fmt.Sprintf("store:\n  backend: file\n  path: %s\n", filepath.Join(dir, "snapshots"))},
		{"sqlite", fmt.Sprintf("store:\n  backend: sqlite\n  path: %s\n", filepath.Join(dir, "harbor.db"))},
		{"redis", fmt.Sprintf("store:\n  backend: redis\n  redis_addr: %s\n  lock: true\n", mr.Addr())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, tt.cfg)
			ctx := context.Background()

			err := app.Mutate(ctx, func(m *harbor.Manager) error {
				m.AddPort("North")
				_, err := m.Park("North", domain.DefaultShip{MaxSpeed: 100, Weight: 200, Deck: true})
				return err
			})
			require.NoError(t, err)

			keys, err := app.Manager.Snapshots(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{DefaultSnapshot}, keys)

			// A second app on the same backend sees the saved state.
			if tt.name == "memory" {
				return
			}
			other := newApp(t, tt.cfg)
			require.NoError(t, other.Open(ctx))
			view, err := other.Manager.Port("North")
			require.NoError(t, err)
			require.Len(t, view.Ships, 1)
			assert.Equal(t, "100,200,true", view.Ships[0].Describe())
		})
	}
}

func TestNewApp_Errors(t *testing.T) {
	_, err := NewApp(Options{ConfigPath: writeConfig(t, "store:\n  backend: tape\n")})
	assert.Error(t, err)

	_, err = NewApp(Options{ConfigPath: writeConfig(t, "store:\n  backend: memory\n"), LogLevel: "loud"})
	assert.Error(t, err)
}

func TestMutate_FailureSkipsSave(t *testing.T) {
	app := newApp(t, "store:\n  backend: memory\n")
	ctx := context.Background()

	boom := errors.New("boom")
	err := app.Mutate(ctx, func(m *harbor.Manager) error {
		m.AddPort("North")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	keys, err := app.Manager.Snapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMutate_ConcurrentAppsUnderLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := fmt.Sprintf("store:\n  backend: redis\n  redis_addr: %s\n  lock: true\n", mr.Addr())
	first := newApp(t, cfg)
	second := newApp(t, cfg)
	ctx := context.Background()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- first.Mutate(ctx, func(m *harbor.Manager) error {
			close(entered)
			<-proceed
			m.AddPort("North")
			_, err := m.Park("North", domain.DefaultShip{MaxSpeed: 1, Weight: 1})
			return err
		})
	}()
	<-entered

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- second.Mutate(ctx, func(m *harbor.Manager) error {
			m.AddPort("North")
			_, err := m.Park("North", domain.DefaultShip{MaxSpeed: 2, Weight: 2})
			return err
		})
	}()
	time.Sleep(200 * time.Millisecond)
	close(proceed)

	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	check := newApp(t, cfg)
	require.NoError(t, check.Open(ctx))
	view, err := check.Manager.Port("North")
	require.NoError(t, err)
	require.Len(t, view.Ships, 2)
	assert.Equal(t, "1,1,false", view.Ships[0].Describe())
	assert.Equal(t, "2,2,false", view.Ships[1].Describe())
}

func TestServe(t *testing.T) {
	app := newApp(t, "store:\n  backend: memory\n")
	app.Manager.AddPort("North")

	apiLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	metricsLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, apiLn, metricsLn) }()

	get := func(url string) (int, string) {
		resp, err := http.Get(url)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, _ := get("http://" + apiLn.Addr().String() + "/health")
	assert.Equal(t, http.StatusOK, code)

	code, body := get("http://" + metricsLn.Addr().String() + "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "harbor_ports")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}

	// Shutdown saves the collection.
	keys, err := app.Manager.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultSnapshot}, keys)
}

func TestNewApp_Encrypted(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
	cfg := fmt.Sprintf("store:\n  backend: file\n  path: %s\n  encryption_key: %s\n", dir, key)

	app := newApp(t, cfg)
	ctx := context.Background()
	require.NoError(t, app.Mutate(ctx, func(m *harbor.Manager) error {
		m.AddPort("Secret")
		return nil
	}))

	raw, err := os.ReadFile(filepath.Join(dir, DefaultSnapshot+".harbor"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Secret")

	other := newApp(t, cfg)
	require.NoError(t, other.Open(ctx))
	assert.Equal(t, []string{"Secret"}, other.Manager.Names())
}
