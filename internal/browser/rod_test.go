package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantStale bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("next page not found: %w", context.DeadlineExceeded), false},
		{"plain", errors.New("element not interactable"), false},
		{"cdp node gone", &cdp.Error{Code: -32000, Message: "Could not find node with given id"}, true},
		{"cdp context gone", fmt.Errorf("click failed: %w", &cdp.Error{Code: -32000, Message: "Cannot find context with specified id"}), true},
		{"object not found", &rod.ObjectNotFoundError{}, true},
		{"already tagged", fmt.Errorf("wrapped: %w", ErrStaleElement), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Errorf("Expected nil, got %v", got)
				}
				return
			}
			if IsStale(got) != tt.wantStale {
				t.Errorf("IsStale(classify(%v)) = %v, expected %v", tt.err, IsStale(got), tt.wantStale)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Expected original error to stay in the chain, got %v", got)
			}
		})
	}
}

func TestLocatorString(t *testing.T) {
	css := Locator{Name: "rows", CSS: "tbody tr"}
	if css.String() != "rows (tbody tr)" {
		t.Errorf("Unexpected CSS locator string %q", css.String())
	}
	xpath := Locator{Name: "option", CSS: "li", XPath: "//li[text()='50']"}
	if xpath.String() != "option (//li[text()='50'])" {
		t.Errorf("Unexpected XPath locator string %q", xpath.String())
	}
}
