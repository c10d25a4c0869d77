package render

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

// StaticOptions configures the static renderer.
type StaticOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// StaticRenderer fetches pages over plain HTTP. No scripts run, so it only
// suits pages whose tables are present in the server response.
type StaticRenderer struct {
	client *resty.Client
}

// NewStatic creates a StaticRenderer.
func NewStatic(opts StaticOptions) *StaticRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &StaticRenderer{client: client}
}

func (s *StaticRenderer) Name() string { return "static" }
func (s *StaticRenderer) Close() error { return nil }

// NewSession returns an empty session; the fetch happens on Navigate.
func (s *StaticRenderer) NewSession(_ context.Context) (Session, error) {
	return &staticSession{client: s.client}, nil
}

type staticSession struct {
	client *resty.Client
	html   string
	doc    *goquery.Document
	closed bool
}

func (s *staticSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return eris.New("static: session closed")
	}
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	body := resp.String()
	if kind := DetectBlock(resp.StatusCode(), resp.Header(), body); kind != BlockNone {
		return &NavigationError{URL: url, StatusCode: resp.StatusCode(), Err: &BlockedError{Kind: kind}}
	}
	if resp.IsError() {
		return &NavigationError{URL: url, StatusCode: resp.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return &NavigationError{URL: url, Err: eris.Wrap(err, "static: parse html")}
	}
	s.html = body
	s.doc = doc
	return nil
}

// WaitFor checks the fetched document once; a static page never changes.
func (s *staticSession) WaitFor(_ context.Context, selector string) error {
	if s.doc == nil {
		return eris.New("static: wait before navigate")
	}
	if s.doc.Find(selector).Length() == 0 {
		return &SelectorTimeoutError{Selector: selector}
	}
	return nil
}

func (s *staticSession) HTML(_ context.Context) (string, error) {
	if s.doc == nil {
		return "", eris.New("static: html before navigate")
	}
	return s.html, nil
}

func (s *staticSession) Close() error {
	s.closed = true
	s.doc = nil
	s.html = ""
	return nil
}
