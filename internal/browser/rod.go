package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Headless   bool
	Stealth    bool
	BrowserBin string
}

// Session owns one browser process and the single page it drives.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// Launch starts Chromium with the fixed flag set and opens a blank page.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("window-size", "1920,1080")

	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	log.Debug().Str("control_url", controlURL).Msg("Browser launched")

	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var page *rod.Page
	if opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		launcher: l,
		browser:  b,
		page:     page,
	}, nil
}

// Open navigates to url and waits up to loadTimeout for the load event.
func (s *Session) Open(ctx context.Context, url string, loadTimeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(loadTimeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	return nil
}

// Close shuts the browser down and removes the launcher's profile directory.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	return err
}

func (s *Session) WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	el, err := find(p, loc)
	if err != nil {
		return nil, classify(fmt.Errorf("%s not found: %w", loc, err))
	}
	if err := el.WaitVisible(); err != nil {
		return nil, classify(fmt.Errorf("%s not visible: %w", loc, err))
	}
	if err := el.WaitEnabled(); err != nil {
		return nil, classify(fmt.Errorf("%s not enabled: %w", loc, err))
	}
	return &element{el: el}, nil
}

func (s *Session) WaitAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error) {
	if loc.CSS == "" {
		return nil, fmt.Errorf("%s: WaitAll needs a CSS selector", loc.Name)
	}

	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.WaitElementsMoreThan(loc.CSS, 0); err != nil {
		return nil, classify(fmt.Errorf("waiting for %s: %w", loc, err))
	}
	els, err := p.Elements(loc.CSS)
	if err != nil {
		return nil, classify(fmt.Errorf("listing %s: %w", loc, err))
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

func (s *Session) Eval(ctx context.Context, js string) error {
	if _, err := s.page.Context(ctx).Eval(js); err != nil {
		return classify(fmt.Errorf("script failed: %w", err))
	}
	return nil
}

func find(p *rod.Page, loc Locator) (*rod.Element, error) {
	if loc.XPath != "" {
		return p.ElementX(loc.XPath)
	}
	return p.Element(loc.CSS)
}

// element rebinds every call to the caller's context; the context it was
// found under may already be cancelled.
type element struct {
	el *rod.Element
}

func (e *element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classify(fmt.Errorf("click failed: %w", err))
	}
	return nil
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	if err := e.el.Context(ctx).ScrollIntoView(); err != nil {
		return classify(fmt.Errorf("scroll into view failed: %w", err))
	}
	return nil
}

func (e *element) HTML(ctx context.Context) (string, error) {
	html, err := e.el.Context(ctx).HTML()
	if err != nil {
		return "", classify(fmt.Errorf("reading element HTML failed: %w", err))
	}
	return html, nil
}

// CDP messages seen when a node or its JS context vanished mid-operation.
var staleMessages = []string{
	"could not find node with given id",
	"no node with given id found",
	"node with given id does not belong to the document",
	"could not find object with given id",
	"cannot find context with specified id",
	"execution context was destroyed",
	"node is detached from document",
}

// classify tags stale-element failures with ErrStaleElement and leaves other errors alone.
func classify(err error) error {
	if err == nil || IsStale(err) {
		return err
	}
	if isStaleCause(err) {
		return fmt.Errorf("%w: %w", ErrStaleElement, err)
	}
	return err
}

func isStaleCause(err error) bool {
	var notFound *rod.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range staleMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
