// Package browser drives a Chrome or Chromium process over the DevTools
// protocol. It implements the scrape driver contract: one long-lived page
// target that navigates marketplace result pages and lifts raw listing cards
// off them.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
)

const (
	defaultDebugPort = 9222

	// launchTimeout bounds the wait for a freshly started process to expose
	// its DevTools endpoint.
	launchTimeout    = 20 * time.Second
	handshakeTimeout = 10 * time.Second
)

// Config holds browser driver configuration.
type Config struct {
	// MarketplaceURL is the search endpoint queries are appended to.
	MarketplaceURL string
	// ChromePath overrides binary discovery. Empty means search PATH.
	ChromePath string
	// Headless runs the browser without a display.
	Headless bool
	// DebugPort is the DevTools port. Zero selects the default.
	DebugPort int
	Logger    *zap.Logger
}

// Chrome owns one browser process and one DevTools page session. The session
// manager serializes navigations, so a single target is enough.
type Chrome struct {
	config Config
	logger *zap.Logger
	http   *resty.Client

	cmd     *exec.Cmd
	profile string

	mu        sync.Mutex
	conn      *websocket.Conn
	targetURL string
	nextID    int64
}

var _ scrape.Driver = (*Chrome)(nil)

// New creates a driver. The browser process is not started until Open.
func New(cfg Config) *Chrome {
	if cfg.DebugPort == 0 {
		cfg.DebugPort = defaultDebugPort
	}

	return &Chrome{
		config: cfg,
		logger: cfg.Logger,
		http: resty.New().
			SetBaseURL(fmt.Sprintf("http://127.0.0.1:%d", cfg.DebugPort)).
			SetTimeout(2 * time.Second),
	}
}

// Open launches the browser process with a throwaway profile and attaches a
// DevTools session to a fresh page target. A process that never exposes its
// endpoint is torn down again before the error returns.
func (c *Chrome) Open(ctx context.Context) error {
	bin, err := findBinary(c.config.ChromePath)
	if err != nil {
		return err
	}

	profile, err := os.MkdirTemp("", "pricing-browser-*")
	if err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	c.profile = profile

	cmd := exec.Command(bin, launchArgs(c.config, profile)...)
	err = cmd.Start()
	if err != nil {
		_ = os.RemoveAll(profile)
		c.profile = ""
		return fmt.Errorf("launch %s: %w", bin, err)
	}
	c.cmd = cmd

	LaunchesTotal.Inc()
	c.logger.Info("browser-launched",
		zap.String("binary", bin),
		zap.Int("pid", cmd.Process.Pid),
		zap.Bool("headless", c.config.Headless),
		zap.Int("debug-port", c.config.DebugPort))

	err = c.attach(ctx)
	if err != nil {
		c.shutdown()
		return err
	}

	return nil
}

// attach waits for the DevTools endpoint, opens a page target and enables the
// protocol domains the driver speaks.
func (c *Chrome) attach(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	err := c.awaitEndpoint(ctx)
	if err != nil {
		return err
	}

	target, err := c.createTarget(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.targetURL = target.WebSocketDebuggerURL
	err = c.dialTargetLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Info("browser-session-attached",
		zap.String("target", target.ID))
	return nil
}

// awaitEndpoint polls /json/version until the launched process answers.
// Chrome opens the port noticeably after the process starts.
func (c *Chrome) awaitEndpoint(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var version struct {
		Browser              string `json:"Browser"`
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	for {
		resp, err := c.http.R().SetContext(ctx).SetResult(&version).Get("/json/version")
		if err == nil && resp.IsSuccess() {
			c.logger.Debug("browser-endpoint-ready",
				zap.String("browser", version.Browser))
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("devtools endpoint on port %d never came up: %w",
				c.config.DebugPort, ctx.Err())
		case <-ticker.C:
		}
	}
}

// targetInfo is the subset of the /json/new reply the driver needs.
type targetInfo struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// createTarget opens a fresh blank page and returns its DevTools target.
func (c *Chrome) createTarget(ctx context.Context) (*targetInfo, error) {
	var target targetInfo

	// Chrome 111+ only accepts PUT here; older builds only accept GET.
	resp, err := c.http.R().SetContext(ctx).SetResult(&target).Put("/json/new?about:blank")
	if err == nil && resp.StatusCode() == http.StatusMethodNotAllowed {
		resp, err = c.http.R().SetContext(ctx).SetResult(&target).Get("/json/new?about:blank")
	}
	if err != nil {
		return nil, fmt.Errorf("create page target: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("create page target: status %d", resp.StatusCode())
	}
	if target.WebSocketDebuggerURL == "" {
		return nil, fmt.Errorf("create page target: no debugger url in reply")
	}

	return &target, nil
}

// Close tears the session down: socket first, then the process, then the
// profile directory. Safe to call after a failed Open.
func (c *Chrome) Close() error {
	c.shutdown()
	c.logger.Info("browser-closed")
	return nil
}

func (c *Chrome) shutdown() {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.targetURL = ""
	c.mu.Unlock()

	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
		c.cmd = nil
	}

	if c.profile != "" {
		_ = os.RemoveAll(c.profile)
		c.profile = ""
	}
}

// defaultBinaries are tried in order when no explicit path is configured.
var defaultBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

func findBinary(configured string) (string, error) {
	if configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", fmt.Errorf("chrome binary %q: %w", configured, err)
		}
		return path, nil
	}

	for _, name := range defaultBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chrome binary on PATH, set CHROME_PATH")
}

// launchArgs assembles the flag set for a disposable scraping profile.
func launchArgs(cfg Config, profile string) []string {
	args := []string{
		fmt.Sprintf("--remote-debugging-port=%d", cfg.DebugPort),
		"--user-data-dir=" + profile,
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-background-networking",
		"--disable-extensions",
		"--disable-gpu",
		"--window-size=1366,900",
		"--lang=en-US",
	}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}
	return append(args, "about:blank")
}
