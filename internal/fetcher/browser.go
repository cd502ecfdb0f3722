package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
//
// The browser process is an explicitly owned resource: launched on first
// Fetch, reused across requests, and closed exactly once by Close. Each
// request drives its own page so concurrent callers never share a tab.
type BrowserFetcher struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserFetcher creates a browser fetcher. The browser itself is not
// launched until the first Fetch.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		cfg:    cfg,
		logger: logger.With("component", "browser_fetcher"),
	}
}

// ensureBrowser launches and connects the shared browser on first use.
func (bf *BrowserFetcher) ensureBrowser() (*rod.Browser, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser != nil {
		return bf.browser, nil
	}

	l := launcher.New().
		Headless(bf.cfg.Browser.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, &types.SessionError{Err: fmt.Errorf("launch browser: %w", err)}
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, &types.SessionError{Err: fmt.Errorf("connect browser: %w", err)}
	}

	bf.browser = browser
	bf.logger.Info("browser session ready",
		"headless", bf.cfg.Browser.Headless,
		"stealth", bf.cfg.Browser.Stealth,
	)
	return bf.browser, nil
}

// newPage creates a fresh page for one request.
func (bf *BrowserFetcher) newPage(browser *rod.Browser) (*rod.Page, error) {
	if bf.cfg.Browser.Stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// Fetch navigates to the requested URL and returns the rendered markup.
// The page is closed on every exit path.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *PageRequest) (string, error) {
	start := time.Now()

	browser, err := bf.ensureBrowser()
	if err != nil {
		return "", err
	}

	page, err := bf.newPage(browser)
	if err != nil {
		return "", &types.SessionError{Err: fmt.Errorf("open page: %w", err)}
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             bf.cfg.Browser.ViewportWidth,
		Height:            bf.cfg.Browser.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		bf.logger.Warn("failed to set viewport", "error", err)
	}

	if ua := bf.cfg.Browser.UserAgent; ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if err := page.Timeout(bf.cfg.Browser.NavTimeout).Navigate(req.URL); err != nil {
		return "", &types.NavigationError{URL: req.URL, Err: err}
	}

	// Content-ready signal: the wait selector if given, with a bounded
	// fallback to the settle delay when it never shows up.
	if req.WaitSelector != "" {
		el, err := page.Timeout(bf.cfg.Browser.WaitTimeout).Element(req.WaitSelector)
		if err != nil {
			bf.logger.Warn("wait selector timeout, continuing",
				"selector", req.WaitSelector, "url", req.URL)
		} else if err := el.WaitVisible(); err != nil {
			bf.logger.Warn("wait selector never visible, continuing",
				"selector", req.WaitSelector, "error", err)
		}
	}

	if err := page.Timeout(bf.cfg.Browser.NavTimeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", req.URL, "error", err)
	}

	if d := bf.cfg.Browser.SettleDelay; d > 0 {
		if err := sleepCtx(ctx, d); err != nil {
			return "", &types.NavigationError{URL: req.URL, Err: err}
		}
	}

	// Scroll-and-wait cycles trigger the lazy-loaded pagination.
	for i := 0; i < req.Scrolls; i++ {
		if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			bf.logger.Warn("scroll failed", "cycle", i+1, "error", err)
			break
		}
		if err := sleepCtx(ctx, bf.cfg.Browser.ScrollDelay); err != nil {
			return "", &types.NavigationError{URL: req.URL, Err: err}
		}
	}

	if req.Screenshot != "" {
		bf.writeScreenshot(page, req.Screenshot)
	}

	html, err := page.HTML()
	if err != nil {
		return "", &types.NavigationError{URL: req.URL, Err: fmt.Errorf("read page markup: %w", err)}
	}

	bf.logger.Debug("browser fetch complete",
		"url", req.URL,
		"size", len(html),
		"scrolls", req.Scrolls,
		"duration", time.Since(start),
	)

	return html, nil
}

// writeScreenshot persists a diagnostic PNG. Best-effort only.
func (bf *BrowserFetcher) writeScreenshot(page *rod.Page, path string) {
	bin, err := page.Screenshot(false, nil)
	if err != nil {
		bf.logger.Warn("screenshot capture failed", "path", path, "error", err)
		return
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			bf.logger.Warn("screenshot dir create failed", "path", path, "error", err)
			return
		}
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		bf.logger.Warn("screenshot write failed", "path", path, "error", err)
		return
	}
	bf.logger.Info("debug screenshot saved", "path", path)
}

// Close shuts down the browser process, releasing the OS-level session.
func (bf *BrowserFetcher) Close() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser == nil {
		return nil
	}
	err := bf.browser.Close()
	bf.browser = nil
	return err
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string { return "browser" }

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
