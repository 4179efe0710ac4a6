package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/gbinews"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of pages rendered before Chrome is
// restarted. Its memory keeps growing over a long crawl even when every
// tab is closed.
const DefaultRecycleAfter = 75

// blockedURLs are never downloaded. Article text does not depend on them.
var blockedURLs = []string{
	"*.jpg", "*.jpeg", "*.png", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.woff", "*.woff2", "*.ttf", "*.mp4",
	"*doubleclick.net*", "*googlesyndication.com*", "*google-analytics.com*", "*googletagmanager.com*",
}

// Manager owns the headless Chrome process and opens tabs prepared for
// the news site. A restart is due after recycleAfter pages but waits until
// no tab is open, so in-flight fetches are never cut off.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	bin          string
	recycleAfter int
	rendered     int
	open         int
	closed       bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecycleAfter sets how many pages are rendered before Chrome restarts.
func WithRecycleAfter(n int) ManagerOption {
	return func(m *Manager) {
		m.recycleAfter = n
	}
}

// WithBrowserBin runs the Chrome binary at path instead of the one found
// on the system (or downloaded) by the launcher.
func WithBrowserBin(path string) ManagerOption {
	return func(m *Manager) {
		m.bin = path
	}
}

// NewManager launches headless Chrome.
// Close must be called when the Manager is no longer needed.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(m)
	}

	browser, l, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.browser, m.launcher = browser, l
	return m, nil
}

// Page opens a tab bound to ctx that sends userAgent and skips images,
// fonts, and ad trackers. release must be called once the tab is done.
func (m *Manager) Page(ctx context.Context, userAgent string) (*rod.Page, func(), error) {
	browser, err := m.acquire()
	if err != nil {
		return nil, nil, err
	}

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		m.releaseTab()
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}
	// The tab is closed without ctx, which may already be done by then.
	release := func() {
		_ = tab.Close()
		m.releaseTab()
	}

	if err := (proto.NetworkEnable{}).Call(tab); err != nil {
		release()
		return nil, nil, fmt.Errorf("enabling network: %w", err)
	}
	if err := (proto.NetworkSetBlockedURLs{Urls: blockedURLs}).Call(tab); err != nil {
		release()
		return nil, nil, fmt.Errorf("blocking resources: %w", err)
	}
	if err := tab.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: AcceptLanguage,
	}); err != nil {
		release()
		return nil, nil, fmt.Errorf("setting user agent: %w", err)
	}

	return tab.Context(ctx), release, nil
}

// Rendered returns the number of pages opened on the current browser.
func (m *Manager) Rendered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rendered
}

// PID returns the process ID of the running Chrome, or 0 after Close.
func (m *Manager) PID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

// Close shuts Chrome down. Close is safe to call multiple times.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.shutdown()
}

// acquire counts a new tab and returns the browser to open it on,
// restarting Chrome first when a restart is due and no tab is open.
func (m *Manager) acquire() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, gbinews.Errorf(gbinews.EINVALID, "browser is closed")
	}

	if m.recycleAfter > 0 && m.rendered >= m.recycleAfter && m.open == 0 {
		// A failed restart keeps the old browser; the next tab tries again.
		if browser, l, err := m.launch(); err == nil {
			_ = m.shutdown()
			m.browser, m.launcher = browser, l
			m.rendered = 0
		}
	}

	m.rendered++
	m.open++
	return m.browser, nil
}

func (m *Manager) releaseTab() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open--
}

func (m *Manager) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("blink-settings", "imagesEnabled=false").
		Leakless(true).
		Headless(true)
	if m.bin != "" {
		l = l.Bin(m.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

// shutdown closes the current browser. Must be called with mu held.
func (m *Manager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}
