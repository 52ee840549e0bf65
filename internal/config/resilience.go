package config

import (
	"time"

	"eudamed_scraper/internal/retry"
)

type ResilienceConfig struct {
	// RowScrape and PageAdvance allow three attempts with a flat pause, retrying
	// only on stale element references.
	RowScrape   retry.Config `yaml:"row_scrape"`
	PageAdvance retry.Config `yaml:"page_advance"`
	SheetMirror retry.Config `yaml:"sheet_mirror"`
	Notify      retry.Config `yaml:"notify"`
}

var DefaultResilienceConfig = ResilienceConfig{
	RowScrape: retry.Config{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		MaxDelay:   2 * time.Second,
		FixedDelay: true,
	},
	PageAdvance: retry.Config{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		MaxDelay:   2 * time.Second,
		FixedDelay: true,
	},
	SheetMirror: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	Notify: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    10 * time.Second,
	},
}
