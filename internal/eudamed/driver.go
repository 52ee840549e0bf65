package eudamed

import (
	"context"
	"fmt"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/output"

	"github.com/rs/zerolog/log"
)

// DefaultMaxPages caps a run in case the last page is never detected.
const DefaultMaxPages = 1000

// Outcome says why a run stopped.
type Outcome string

const (
	// OutcomeExhausted means the next page button could not be used any more.
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeCapReached means the page cap stopped the run.
	OutcomeCapReached Outcome = "cap_reached"
)

type Summary struct {
	Pages        int
	Records      int
	DroppedPages []int
	Outcome      Outcome
}

// Driver runs configure, then scrape, save and advance for each page.
type Driver struct {
	page         browser.Page
	sheet        *output.Sheet
	persisters   []output.Persister
	configurator *PageSizeConfigurator
	scraper      *RowScraper
	advancer     *PageAdvancer
	maxPages     int
}

func NewDriver(page browser.Page, sheet *output.Sheet, persisters []output.Persister, tuning config.Tuning, maxPages int) *Driver {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Driver{
		page:         page,
		sheet:        sheet,
		persisters:   persisters,
		configurator: NewPageSizeConfigurator(tuning.Timings),
		scraper:      NewRowScraper(tuning.Timings, tuning.Resilience.RowScrape),
		advancer:     NewPageAdvancer(tuning.Timings, tuning.Resilience.PageAdvance),
		maxPages:     maxPages,
	}
}

// Run scrapes until the pager stops or the page cap is hit. The sheet is saved
// in full after every page, so whatever was scraped before an error is on disk.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	d.configurator.Configure(ctx, d.page)

	cursor := d.sheet.Len()
	for page := 1; ; page++ {
		log.Info().Int("page", page).Msg("Scraping page")

		result, err := d.scraper.Scrape(ctx, d.page, d.sheet, cursor)
		if err != nil {
			return summary, fmt.Errorf("scraping page %d: %w", page, err)
		}
		cursor = result.Cursor
		summary.Pages = page
		summary.Records = cursor
		if result.Dropped {
			summary.DroppedPages = append(summary.DroppedPages, page)
		}

		if err := d.sheet.Save(ctx, d.persisters...); err != nil {
			return summary, fmt.Errorf("saving after page %d: %w", page, err)
		}
		log.Info().
			Int("page", page).
			Int("page_records", result.Records).
			Int("total_records", cursor).
			Msg("Page saved")

		if page >= d.maxPages {
			log.Warn().Int("max_pages", d.maxPages).Msg("Page cap reached; stopping")
			summary.Outcome = OutcomeCapReached
			return summary, nil
		}

		if !d.advancer.Advance(ctx, d.page) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.Outcome = OutcomeExhausted
			return summary, nil
		}
	}
}
