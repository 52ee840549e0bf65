package eudamed

import (
	"context"
	"errors"
	"time"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/retry"

	"github.com/rs/zerolog/log"
)

type PageAdvancer struct {
	timings     config.Timings
	retryConfig retry.Config
}

func NewPageAdvancer(timings config.Timings, retryConfig retry.Config) *PageAdvancer {
	retryConfig.Retryable = browser.IsStale
	retryConfig.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Next page button went stale, retrying")
	}
	return &PageAdvancer{
		timings:     timings,
		retryConfig: retryConfig,
	}
}

// Advance clicks the next page button and reports whether a new page is shown.
// A missing or disabled button is how the last page shows itself, so every
// failure ends in false rather than an error.
func (a *PageAdvancer) Advance(ctx context.Context, page browser.Page) bool {
	err := retry.Do(ctx, a.retryConfig, func(ctx context.Context) error {
		next, err := page.WaitClickable(ctx, NextPage, a.timings.NextWait)
		if err != nil {
			return err
		}
		if err := next.ScrollIntoView(ctx); err != nil {
			return err
		}
		if err := click(ctx, next, a.timings.ClickWait); err != nil {
			return err
		}
		return sleep(ctx, a.timings.AdvanceSettle)
	})

	switch {
	case err == nil:
		return true
	case errors.Is(err, retry.ErrExhausted):
		log.Error().Err(err).Msg("Could not navigate to the next page")
	default:
		log.Info().Err(err).Msg("No more pages or error navigating")
	}
	return false
}
