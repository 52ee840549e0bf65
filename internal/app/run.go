package app

import (
	"context"
	"fmt"
	"time"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/eudamed"
	"eudamed_scraper/internal/notifications"
	"eudamed_scraper/internal/output"
	"eudamed_scraper/internal/sheets"

	"github.com/rs/zerolog/log"
)

const notifyTimeout = 30 * time.Second

// Run opens the search page, scrapes every page into the output workbook and
// sends the run summary. The browser is closed before Run returns.
func Run(ctx context.Context, s Settings, tuning config.Tuning) (eudamed.Summary, error) {
	start := time.Now()
	notifier := InitializeNotificationClient(s, tuning.Resilience)

	summary, err := scrape(ctx, s, tuning)

	// The root context may already be cancelled; the summary still goes out.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	notifier.NotifyRunComplete(notifyCtx, notifications.RunReport{
		Pages:        summary.Pages,
		Records:      summary.Records,
		DroppedPages: summary.DroppedPages,
		Outcome:      string(summary.Outcome),
		Duration:     time.Since(start),
		OutputPath:   s.OutputPath,
		Err:          err,
	})

	return summary, err
}

func scrape(ctx context.Context, s Settings, tuning config.Tuning) (eudamed.Summary, error) {
	persisters, err := buildPersisters(ctx, s, tuning.Resilience)
	if err != nil {
		return eudamed.Summary{}, err
	}

	session, err := browser.Launch(ctx, browser.Options{
		Headless:   s.Headless,
		Stealth:    s.Stealth,
		BrowserBin: s.BrowserBin,
	})
	if err != nil {
		return eudamed.Summary{}, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close browser")
		}
		log.Debug().Msg("Browser closed")
	}()

	log.Info().Str("url", s.URL).Msg("Opening EUDAMED search")
	if err := session.Open(ctx, s.URL, tuning.Timings.PageLoad); err != nil {
		return eudamed.Summary{}, fmt.Errorf("opening %s: %w", s.URL, err)
	}

	sheet := output.NewSheet(eudamed.SheetName)
	driver := eudamed.NewDriver(session, sheet, persisters, tuning, s.MaxPages)
	return driver.Run(ctx)
}

// buildPersisters returns the workbook writer, followed by the Google Sheets
// mirror when a spreadsheet is configured.
func buildPersisters(ctx context.Context, s Settings, resilience config.ResilienceConfig) ([]output.Persister, error) {
	persisters := []output.Persister{output.NewXLSXWriter(s.OutputPath)}

	if s.SpreadsheetID == "" {
		return persisters, nil
	}

	client, err := sheets.NewClient(ctx, s.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	mirror := sheets.NewMirror(client, s.SpreadsheetID, s.SpreadsheetTab, resilience.SheetMirror)
	log.Info().Str("tab", s.SpreadsheetTab).Msg("Mirroring output to Google Sheets")

	return append(persisters, output.BestEffort("sheets mirror", mirror)), nil
}
