package browser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSearchURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  string
		query string
		want  string
	}{
		{
			name:  "plain base",
			base:  "https://www.ebay.com/sch/i.html",
			query: "nike air max 90",
			want:  "https://www.ebay.com/sch/i.html?LH_Complete=1&LH_Sold=1&_nkw=nike+air+max+90",
		},
		{
			name:  "base with existing query string",
			base:  "https://market.example/search?region=us",
			query: "levis 501",
			want:  "https://market.example/search?region=us&LH_Complete=1&LH_Sold=1&_nkw=levis+501",
		},
		{
			name:  "query needing escaping",
			base:  "https://www.ebay.com/sch/i.html",
			query: "tommy & lefroy 50%",
			want:  "https://www.ebay.com/sch/i.html?LH_Complete=1&LH_Sold=1&_nkw=tommy+%26+lefroy+50%25",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := searchURL(tt.base, tt.query)
			if got != tt.want {
				t.Errorf("searchURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLaunchArgs(t *testing.T) {
	t.Parallel()

	cfg := Config{DebugPort: 9333, Headless: true}
	args := launchArgs(cfg, "/tmp/profile-x")

	assertContains := func(want string) {
		t.Helper()
		for _, arg := range args {
			if arg == want {
				return
			}
		}
		t.Errorf("launch args missing %q: %v", want, args)
	}

	assertContains("--remote-debugging-port=9333")
	assertContains("--user-data-dir=/tmp/profile-x")
	assertContains("--headless=new")
	assertContains("--no-first-run")

	if args[len(args)-1] != "about:blank" {
		t.Errorf("expected about:blank as final arg, got %q", args[len(args)-1])
	}
}

func TestLaunchArgs_Headful(t *testing.T) {
	t.Parallel()

	args := launchArgs(Config{DebugPort: 9222, Headless: false}, "/tmp/p")
	for _, arg := range args {
		if strings.HasPrefix(arg, "--headless") {
			t.Errorf("headful launch should not carry %q", arg)
		}
	}
}

func TestFindBinary_Configured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chrome")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	got, err := findBinary(path)
	if err != nil {
		t.Fatalf("findBinary() error: %v", err)
	}
	if got != path {
		t.Errorf("findBinary() = %q, want %q", got, path)
	}
}

func TestFindBinary_ConfiguredMissing(t *testing.T) {
	_, err := findBinary("/nonexistent/chrome-binary")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "/nonexistent/chrome-binary") {
		t.Errorf("error should name the path, got %q", err.Error())
	}
}

func TestFindBinary_NothingOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := findBinary("")
	if err == nil {
		t.Fatal("expected error with empty PATH")
	}
	if !strings.Contains(err.Error(), "CHROME_PATH") {
		t.Errorf("error should mention CHROME_PATH, got %q", err.Error())
	}
}

func TestNew_DefaultPort(t *testing.T) {
	t.Parallel()

	c := New(Config{Logger: zap.NewNop()})
	if c.config.DebugPort != defaultDebugPort {
		t.Errorf("expected default port %d, got %d", defaultDebugPort, c.config.DebugPort)
	}
}

func TestOpen_MissingBinary(t *testing.T) {
	t.Parallel()

	c := New(Config{ChromePath: "/nonexistent/chrome-binary", Logger: zap.NewNop()})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Open(ctx); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestNavigateAndExtract_NotOpen(t *testing.T) {
	t.Parallel()

	c := New(Config{MarketplaceURL: "https://www.ebay.com/sch/i.html", Logger: zap.NewNop()})

	_, err := c.NavigateAndExtract(context.Background(), "nike sneakers")
	if err == nil {
		t.Fatal("expected error before Open")
	}
	if !strings.Contains(err.Error(), "browser not open") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClose_BeforeOpen(t *testing.T) {
	t.Parallel()

	c := New(Config{Logger: zap.NewNop()})
	if err := c.Close(); err != nil {
		t.Errorf("Close() before Open should be a no-op, got %v", err)
	}
}
