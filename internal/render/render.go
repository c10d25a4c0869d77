// Package render provides the page-renderer capability the extractor reads
// from: a headless Chromium backend and a static HTTP backend.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// Session is one page/tab. It is not safe for concurrent use.
type Session interface {
	// Navigate loads url and returns once the page's network has gone idle.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until selector matches at least one element.
	WaitFor(ctx context.Context, selector string) error

	// HTML serializes the current rendered document.
	HTML(ctx context.Context) (string, error)

	// Close releases the page.
	Close() error
}

// Renderer hands out sessions.
type Renderer interface {
	NewSession(ctx context.Context) (Session, error)
	Name() string
	Close() error
}

// NavigationError reports that a page could not be loaded.
type NavigationError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NavigationError) Error() string {
	if e.StatusCode != 0 && e.Err != nil {
		return fmt.Sprintf("navigate %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("navigate %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status, or 0 when none was received.
func (e *NavigationError) HTTPStatus() int {
	return e.StatusCode
}

// SelectorTimeoutError reports that a selector never resolved on the page.
type SelectorTimeoutError struct {
	Selector string
	Err      error
}

func (e *SelectorTimeoutError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("selector %q did not resolve", e.Selector)
	}
	return fmt.Sprintf("selector %q did not resolve: %v", e.Selector, e.Err)
}

func (e *SelectorTimeoutError) Unwrap() error {
	return e.Err
}

// Config selects and tunes a renderer.
type Config struct {
	Driver          string `yaml:"driver" mapstructure:"driver"`
	Headless        bool   `yaml:"headless" mapstructure:"headless"`
	ControlURL      string `yaml:"control_url" mapstructure:"control_url"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
	NavTimeoutSecs  int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	WaitTimeoutSecs int    `yaml:"wait_timeout_secs" mapstructure:"wait_timeout_secs"`
}

// New builds the renderer named by cfg.Driver.
func New(cfg Config) (Renderer, error) {
	nav := time.Duration(cfg.NavTimeoutSecs) * time.Second
	wait := time.Duration(cfg.WaitTimeoutSecs) * time.Second

	switch cfg.Driver {
	case "rod", "":
		return NewRod(RodOptions{
			ControlURL:  cfg.ControlURL,
			Headless:    cfg.Headless,
			UserAgent:   cfg.UserAgent,
			NavTimeout:  nav,
			WaitTimeout: wait,
		}), nil
	case "static":
		return NewStatic(StaticOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   nav,
		}), nil
	default:
		return nil, eris.Errorf("render: unsupported driver %q (valid: rod, static)", cfg.Driver)
	}
}
