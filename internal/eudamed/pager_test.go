package eudamed

import (
	"context"
	"errors"
	"testing"
	"time"

	"eudamed_scraper/internal/config"
)

func newTestAdvancer() *PageAdvancer {
	return NewPageAdvancer(config.Timings{}, testRetryConfig())
}

func TestAdvanceClicksNextPage(t *testing.T) {
	page := &fakePage{pages: [][]string{{validRow("A")}, {validRow("B")}}}

	if !newTestAdvancer().Advance(context.Background(), page) {
		t.Fatal("Expected advance to succeed")
	}
	if page.current != 1 {
		t.Errorf("Expected to be on page index 1, got %d", page.current)
	}
	if page.scrolls != 1 {
		t.Errorf("Expected the button to be scrolled into view once, got %d", page.scrolls)
	}
}

func TestAdvanceOnLastPageReturnsFalse(t *testing.T) {
	page := &fakePage{pages: [][]string{{validRow("A")}}}

	if newTestAdvancer().Advance(context.Background(), page) {
		t.Error("Expected advance to fail on the last page")
	}
	if page.nextChecks != 1 {
		t.Errorf("Expected a missing button not to be retried, got %d checks", page.nextChecks)
	}
}

func TestAdvanceTreatsOtherErrorsAsEnd(t *testing.T) {
	page := &fakePage{
		pages:   [][]string{{validRow("A")}, {validRow("B")}},
		nextErr: errors.New("element not interactable"),
	}

	if newTestAdvancer().Advance(context.Background(), page) {
		t.Error("Expected advance to report false")
	}
	if page.current != 0 {
		t.Errorf("Expected to stay on the first page, got %d", page.current)
	}
}

func TestAdvanceRetriesStaleButton(t *testing.T) {
	tests := []struct {
		name       string
		stale      int
		wantOK     bool
		wantChecks int
	}{
		{"one stale lookup", 1, true, 2},
		{"two stale lookups", 2, true, 3},
		{"three stale lookups", 3, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &fakePage{
				pages:     [][]string{{validRow("A")}, {validRow("B")}},
				staleNext: tt.stale,
			}

			ok := newTestAdvancer().Advance(context.Background(), page)
			if ok != tt.wantOK {
				t.Errorf("Expected advance=%v, got %v", tt.wantOK, ok)
			}
			if page.nextChecks != tt.wantChecks {
				t.Errorf("Expected %d lookups, got %d", tt.wantChecks, page.nextChecks)
			}
		})
	}
}

func TestAdvanceGivesUpOnCoveredButton(t *testing.T) {
	page := &fakePage{
		pages:        [][]string{{validRow("A")}, {validRow("B")}},
		blockedClick: NextPage.Name,
	}
	advancer := NewPageAdvancer(config.Timings{ClickWait: 20 * time.Millisecond}, testRetryConfig())

	done := make(chan bool, 1)
	go func() { done <- advancer.Advance(context.Background(), page) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("Expected advance to report false for a click that never lands")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Advance did not return while the next button stayed covered")
	}
	if page.unbounded != 0 {
		t.Errorf("Expected every click to carry a deadline, got %d without one", page.unbounded)
	}
	if page.nextChecks != 1 {
		t.Errorf("Expected a timed out click not to be retried, got %d lookups", page.nextChecks)
	}
	if page.current != 0 {
		t.Errorf("Expected to stay on the first page, got %d", page.current)
	}
}
