package eudamed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/models"
	"eudamed_scraper/internal/retry"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Sink receives records at consecutive cursor positions.
type Sink interface {
	Put(cursor int, rec models.Manufacturer) error
}

// PageResult is the outcome of scraping one table page.
type PageResult struct {
	// Cursor is the next free output position after this page.
	Cursor int
	// Records is the number of rows written for this page.
	Records int
	// Dropped is set when the rows kept going stale and the page was skipped.
	Dropped bool
}

type RowScraper struct {
	timings     config.Timings
	retryConfig retry.Config
}

func NewRowScraper(timings config.Timings, retryConfig retry.Config) *RowScraper {
	retryConfig.Retryable = browser.IsStale
	retryConfig.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Table rows went stale, retrying extraction")
	}
	return &RowScraper{
		timings:     timings,
		retryConfig: retryConfig,
	}
}

// Scrape reads every rendered row of the current page and writes the valid
// ones to sink starting at cursor. Rows with fewer than seven cells are skipped.
//
// Stale rows are retried from the wait step. When retries run out the page is
// reported as dropped and the cursor comes back unchanged. Any other failure
// is returned.
func (s *RowScraper) Scrape(ctx context.Context, page browser.Page, sink Sink, cursor int) (PageResult, error) {
	records, err := retry.WithRetry(ctx, s.retryConfig, func(ctx context.Context) ([]models.Manufacturer, error) {
		return s.extract(ctx, page)
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			log.Error().
				Err(err).
				Int("cursor", cursor).
				Msg("Could not read the table rows reliably; skipping this page")
			return PageResult{Cursor: cursor, Dropped: true}, nil
		}
		return PageResult{Cursor: cursor}, err
	}

	// Records are written only after a full pass so a retried pass never
	// leaves half a page behind.
	for _, rec := range records {
		if err := sink.Put(cursor, rec); err != nil {
			return PageResult{Cursor: cursor}, fmt.Errorf("writing row at %d: %w", cursor, err)
		}
		cursor++
	}

	log.Debug().
		Int("records", len(records)).
		Int("cursor", cursor).
		Msg("Scraped table page")
	return PageResult{Cursor: cursor, Records: len(records)}, nil
}

func (s *RowScraper) extract(ctx context.Context, page browser.Page) ([]models.Manufacturer, error) {
	rows, err := page.WaitAll(ctx, TableRows, s.timings.RowWait)
	if err != nil {
		return nil, err
	}

	records := make([]models.Manufacturer, 0, len(rows))
	for i, row := range rows {
		html, err := row.HTML(ctx)
		if err != nil {
			return nil, err
		}
		cells, err := cellTexts(html)
		if err != nil {
			return nil, fmt.Errorf("parsing row %d: %w", i+1, err)
		}
		rec, err := models.ManufacturerFromCells(cells)
		if err != nil {
			log.Debug().Int("row", i+1).Int("cells", len(cells)).Msg("Skipping row with insufficient cells")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// cellTexts returns the whitespace-normalised text of each cell of a <tr>.
func cellTexts(rowHTML string) ([]string, error) {
	// A bare <tr> is dropped by the HTML parser outside of a table.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + rowHTML + "</tbody></table>"))
	if err != nil {
		return nil, err
	}

	row := doc.Find("tr").First()
	row.Find(ColumnTitleSelector).Remove()

	var cells []string
	row.ChildrenFiltered(CellSelector).Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, strings.Join(strings.Fields(td.Text()), " "))
	})
	return cells, nil
}
