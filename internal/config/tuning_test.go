package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTuningEmptyPath(t *testing.T) {
	tuning, err := LoadTuning("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tuning.Timings != DefaultTimings {
		t.Errorf("Expected default timings, got %+v", tuning.Timings)
	}
	if tuning.Resilience.RowScrape.MaxRetries != 2 {
		t.Errorf("Expected 2 row scrape retries, got %d", tuning.Resilience.RowScrape.MaxRetries)
	}
}

func TestLoadTuningOverridesOnlyNamedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
timings:
  row_wait: 90s
  advance_settle: 500ms
resilience:
  page_advance:
    max_retries: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write tuning file: %v", err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if tuning.Timings.RowWait != 90*time.Second {
		t.Errorf("Expected row_wait 90s, got %v", tuning.Timings.RowWait)
	}
	if tuning.Timings.AdvanceSettle != 500*time.Millisecond {
		t.Errorf("Expected advance_settle 500ms, got %v", tuning.Timings.AdvanceSettle)
	}
	if tuning.Timings.NextWait != DefaultTimings.NextWait {
		t.Errorf("Expected next_wait to keep its default, got %v", tuning.Timings.NextWait)
	}
	if tuning.Resilience.PageAdvance.MaxRetries != 4 {
		t.Errorf("Expected 4 page advance retries, got %d", tuning.Resilience.PageAdvance.MaxRetries)
	}
	if tuning.Resilience.PageAdvance.BaseDelay != 2*time.Second {
		t.Errorf("Expected page advance base delay to keep its default, got %v", tuning.Resilience.PageAdvance.BaseDelay)
	}
	if !tuning.Resilience.PageAdvance.FixedDelay {
		t.Error("Expected page advance to keep its fixed delay")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestLoadTuningInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("timings: [not, a, map"), 0o644); err != nil {
		t.Fatalf("Failed to write tuning file: %v", err)
	}
	tuning, err := LoadTuning(path)
	if err == nil {
		t.Error("Expected parse error, got nil")
	}
	if tuning.Timings != DefaultTimings {
		t.Errorf("Expected defaults on parse error, got %+v", tuning.Timings)
	}
}
