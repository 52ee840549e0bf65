// Package browser drives a Chromium page and exposes the small surface the
// scraper needs, so the scraping logic can run against fakes in tests.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrStaleElement means an element reference went away because the page
// re-rendered between locating it and using it.
var ErrStaleElement = errors.New("element is stale or detached from the document")

// IsStale reports whether err is a transient stale-element condition.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleElement)
}

// Locator names one element query. XPath wins over CSS when both are set.
type Locator struct {
	Name  string
	CSS   string
	XPath string
}

func (l Locator) String() string {
	if l.XPath != "" {
		return l.Name + " (" + l.XPath + ")"
	}
	return l.Name + " (" + l.CSS + ")"
}

type Page interface {
	// WaitClickable waits up to timeout for the element to be visible and enabled.
	WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)
	// WaitAll waits up to timeout for at least one match and returns all matches.
	WaitAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error)
	// Eval runs a JavaScript function expression in the page.
	Eval(ctx context.Context, js string) error
}

type Element interface {
	Click(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
	// HTML returns the element's outer HTML.
	HTML(ctx context.Context) (string, error)
}
