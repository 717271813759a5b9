package rod

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	betterbing "github.com/huyouare/better-bing"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager owns the headless browser behind a Fetcher and replaces it
// every maxPages renders, since Chrome's memory use keeps growing over a
// long crawl even when every tab is closed.
//
// Renders lease the browser they run on. A replaced browser keeps running
// until its last lease is released, so concurrent renders are never cut
// off by a recycle.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *generation
	maxPages int64
	bin      string
	closed   bool
}

// generation is one launched browser and the renders leased on it.
type generation struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int64
	leases   int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified. A non-positive value disables recycling.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin sets the Chrome or Chromium executable to launch.
// By default the launcher looks one up, downloading it if necessary.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(bm)
	}

	g, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = g

	return bm, nil
}

// Acquire leases the browser the next page should be opened on. The
// returned release func must be called once the page is closed; calling it
// more than once is harmless.
//
// Returns EINVALID after Close.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, betterbing.Errorf(betterbing.EINVALID, "browser manager is closed")
	}
	if bm.maxPages > 0 && bm.current.pages >= bm.maxPages {
		bm.recycle()
	}

	g := bm.current
	g.pages++
	g.leases++

	var once sync.Once
	return g.browser, func() { once.Do(func() { bm.release(g) }) }, nil
}

// Close shuts down the current browser. Browsers retired by a recycle shut
// down when their remaining leases are released. Close is safe to call
// multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.current.retired = true
	return bm.current.shutdown()
}

// LauncherPID returns the process ID of the current browser launcher,
// or 0 after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// launch starts a browser with stability flags.
func (bm *BrowserManager) launch() (*generation, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, betterbing.Errorf(betterbing.EINTERNAL, "launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, betterbing.Errorf(betterbing.EINTERNAL, "connecting to browser: %w", err)
	}

	return &generation{browser: browser, launcher: l}, nil
}

// recycle swaps in a fresh browser. If the launch fails the current browser
// stays in service and the next Acquire tries again.
// Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	old.retired = true
	if old.leases == 0 {
		_ = old.shutdown()
	}
}

func (bm *BrowserManager) release(g *generation) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	g.leases--
	if g.retired && g.leases == 0 {
		_ = g.shutdown()
	}
}

// shutdown closes the browser and kills its launcher. It is idempotent.
func (g *generation) shutdown() error {
	var err error
	if g.browser != nil {
		err = g.browser.Close()
		g.browser = nil
	}
	if g.launcher != nil {
		g.launcher.Kill()
		g.launcher = nil
	}
	return err
}
