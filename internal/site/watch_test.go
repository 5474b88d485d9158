package site_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openimaging/hubsite/internal/site"
)

func TestWatchRegeneratesOnDatasetChange(t *testing.T) {
	t.Parallel()
	buildDir := newBuildTree(t)

	gen, err := site.New(discardLogger())
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- gen.Watch(ctx, site.Options{BuildDir: buildDir})
	}()

	listingPath := filepath.Join(buildDir, "plugins_list.html")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(listingPath)
		return err == nil
	})

	// Append a third plugin and wait for the debounced regeneration.
	csvPath := filepath.Join(buildDir, "data", "final_plugins.csv")
	f, err := os.OpenFile(csvPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	row := "plugin-extra,plugin-extra,Plugin Extra,added later,Kay," +
		"2024-01-01T00:00:00,2024-06-01T00:00:00,,,,," +
		"https://pypi.org/project/plugin-extra,,\n"
	if _, err := f.WriteString(row); err != nil {
		t.Fatalf("append row: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close dataset: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		raw, err := os.ReadFile(listingPath)
		return err == nil && strings.Contains(string(raw), "Plugin Extra")
	})

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Watch returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancellation")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
