package eudamed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/retry"
)

var errStale = fmt.Errorf("%w: node detached during read", browser.ErrStaleElement)

// fakePage serves a fixed list of table pages and lets tests inject failures.
type fakePage struct {
	pages   [][]string // outer HTML of each row, per page
	current int

	staleRowReads int    // upcoming WaitAll calls that fail stale
	rowErr        error  // returned by WaitAll after stale reads are used up
	staleNext     int    // upcoming next-button lookups that fail stale
	nextErr       error  // returned instead of the next button
	staleHTML     int    // upcoming passes whose second row fails stale while being read
	blockedClick  string // element name whose clicks hang until their context ends

	triggerErr error
	evalErr    error

	rowReads   int
	nextChecks int
	clicks     []string
	htmlReads  int
	unbounded  int // blocked clicks that arrived without a deadline
	scrolls    int
	evals      []string
}

func (f *fakePage) WaitClickable(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	switch loc {
	case NextPage:
		f.nextChecks++
		if f.staleNext > 0 {
			f.staleNext--
			return nil, errStale
		}
		if f.nextErr != nil {
			return nil, f.nextErr
		}
		if f.current >= len(f.pages)-1 {
			return nil, fmt.Errorf("%s not enabled: %w", loc, context.DeadlineExceeded)
		}
		return &fakeElement{page: f, name: loc.Name, onClick: func() { f.current++ }}, nil
	case PageSizeTrigger:
		if f.triggerErr != nil {
			return nil, f.triggerErr
		}
		return &fakeElement{page: f, name: loc.Name}, nil
	case PageSizeOption:
		return &fakeElement{page: f, name: loc.Name}, nil
	}
	return nil, fmt.Errorf("unexpected locator %s", loc)
}

func (f *fakePage) WaitAll(ctx context.Context, loc browser.Locator, timeout time.Duration) ([]browser.Element, error) {
	f.rowReads++
	if f.staleRowReads > 0 {
		f.staleRowReads--
		return nil, errStale
	}
	if f.rowErr != nil {
		return nil, f.rowErr
	}
	var els []browser.Element
	for i, html := range f.pages[f.current] {
		els = append(els, &fakeElement{page: f, html: html, index: i})
	}
	return els, nil
}

func (f *fakePage) Eval(ctx context.Context, js string) error {
	f.evals = append(f.evals, js)
	return f.evalErr
}

type fakeElement struct {
	page    *fakePage
	name    string
	html    string
	index   int
	onClick func()
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.page.clicks = append(e.page.clicks, e.name)
	if e.name != "" && e.name == e.page.blockedClick {
		if _, ok := ctx.Deadline(); !ok {
			e.page.unbounded++
		}
		<-ctx.Done()
		return fmt.Errorf("%s is covered by another element: %w", e.name, ctx.Err())
	}
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	e.page.scrolls++
	return nil
}

func (e *fakeElement) HTML(ctx context.Context) (string, error) {
	e.page.htmlReads++
	if e.index > 0 && e.page.staleHTML > 0 {
		e.page.staleHTML--
		return "", errStale
	}
	return e.html, nil
}

// row renders a table row with one <td> per cell.
func row(cells ...string) string {
	var sb strings.Builder
	sb.WriteString("<tr>")
	for _, c := range cells {
		sb.WriteString("<td>" + c + "</td>")
	}
	sb.WriteString("</tr>")
	return sb.String()
}

// validRow renders a seven cell manufacturer row whose first cell is id.
func validRow(id string) string {
	return row(id, "1", "Manufacturer", "Name "+id, "N"+id, "City", "Country")
}

func testRetryConfig() retry.Config {
	return retry.Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
		FixedDelay: true,
	}
}

func testTuning() config.Tuning {
	return config.Tuning{
		Resilience: config.ResilienceConfig{
			RowScrape:   testRetryConfig(),
			PageAdvance: testRetryConfig(),
		},
	}
}
