package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultUserAgent is sent by both renderers unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (compatible; statscrape/1.0)"

// RodOptions configures the headless Chromium renderer.
type RodOptions struct {
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL  string
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration
	WaitTimeout time.Duration
	// IdleWindow is how long the network must stay quiet for a page to count
	// as loaded. Default: 500ms.
	IdleWindow time.Duration
}

// RodRenderer drives a single Chromium instance through go-rod. The browser
// starts on the first NewSession call.
type RodRenderer struct {
	opts RodOptions

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewRod creates a RodRenderer.
func NewRod(opts RodOptions) *RodRenderer {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 60 * time.Second
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 30 * time.Second
	}
	if opts.IdleWindow <= 0 {
		opts.IdleWindow = 500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &RodRenderer{opts: opts}
}

func (r *RodRenderer) Name() string { return "rod" }

func (r *RodRenderer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(r.opts.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, eris.Wrap(err, "rod: launch browser")
		}
		r.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, eris.Wrap(err, "rod: connect browser")
	}
	zap.L().Debug("rod: browser connected", zap.String("control_url", controlURL))
	r.browser = b
	return b, nil
}

// NewSession opens a blank tab.
func (r *RodRenderer) NewSession(ctx context.Context) (Session, error) {
	b, err := r.connect()
	if err != nil {
		return nil, err
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		// A dead browser is dropped so the next session relaunches it.
		r.reset()
		return nil, eris.Wrap(err, "rod: open page")
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.opts.UserAgent}); err != nil {
		_ = page.Close()
		return nil, eris.Wrap(err, "rod: set user agent")
	}
	return &rodSession{page: page, opts: r.opts}, nil
}

func (r *RodRenderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		_ = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
}

// Close shuts down the browser if one was started.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

type rodSession struct {
	page *rod.Page
	opts RodOptions
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.NavTimeout)
	defer cancel()

	p := s.page.Context(ctx)
	waitIdle := p.WaitRequestIdle(s.opts.IdleWindow, nil, nil, nil)
	if err := p.Navigate(url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	if err := p.WaitLoad(); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	waitIdle()
	if ctx.Err() != nil {
		return &NavigationError{URL: url, Err: ctx.Err()}
	}
	if html, err := p.HTML(); err == nil {
		if kind := DetectBlock(0, nil, html); kind != BlockNone {
			return &NavigationError{URL: url, Err: &BlockedError{Kind: kind}}
		}
	}
	return nil
}

func (s *rodSession) WaitFor(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WaitTimeout)
	defer cancel()

	if _, err := s.page.Context(ctx).Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &SelectorTimeoutError{Selector: selector, Err: err}
		}
		return eris.Wrapf(err, "rod: wait for %q", selector)
	}
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", eris.Wrap(err, "rod: serialize document")
	}
	return html, nil
}

func (s *rodSession) Close() error {
	return s.page.Close()
}
