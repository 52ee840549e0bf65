package eudamed

import (
	"context"
	"fmt"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"

	"github.com/rs/zerolog/log"
)

// PageSizeStrategy is one way of switching the table to 50 rows per page.
type PageSizeStrategy struct {
	Name  string
	Apply func(ctx context.Context, page browser.Page) error
}

// PageSizeConfigurator tries its strategies in order until one succeeds.
type PageSizeConfigurator struct {
	Strategies []PageSizeStrategy
}

// NewPageSizeConfigurator clicks through the dropdown first and falls back to
// clicking the same controls from a script.
func NewPageSizeConfigurator(timings config.Timings) *PageSizeConfigurator {
	return &PageSizeConfigurator{
		Strategies: []PageSizeStrategy{
			{Name: "interactive", Apply: interactivePageSize(timings)},
			{Name: "script", Apply: scriptedPageSize(timings)},
		},
	}
}

// Configure never fails the run: it reports whether any strategy worked and
// otherwise leaves the table at its default page size.
func (c *PageSizeConfigurator) Configure(ctx context.Context, page browser.Page) bool {
	for _, s := range c.Strategies {
		err := s.Apply(ctx, page)
		if err == nil {
			log.Info().Str("strategy", s.Name).Msg("Set entries per page to 50")
			return true
		}
		log.Warn().Err(err).Str("strategy", s.Name).Msg("Could not set entries per page")
		if ctx.Err() != nil {
			return false
		}
	}
	log.Warn().Msg("All page size strategies failed; continuing with the default page size")
	return false
}

func interactivePageSize(timings config.Timings) func(context.Context, browser.Page) error {
	return func(ctx context.Context, page browser.Page) error {
		trigger, err := page.WaitClickable(ctx, PageSizeTrigger, timings.PageSizeWait)
		if err != nil {
			return err
		}
		if err := click(ctx, trigger, timings.ClickWait); err != nil {
			return fmt.Errorf("opening dropdown: %w", err)
		}
		option, err := page.WaitClickable(ctx, PageSizeOption, timings.PageSizeWait)
		if err != nil {
			return err
		}
		if err := click(ctx, option, timings.ClickWait); err != nil {
			return fmt.Errorf("choosing 50: %w", err)
		}
		return nil
	}
}

func scriptedPageSize(timings config.Timings) func(context.Context, browser.Page) error {
	return func(ctx context.Context, page browser.Page) error {
		if err := page.Eval(ctx, openPageSizeScript); err != nil {
			return err
		}
		if err := page.Eval(ctx, pickPageSizeScript); err != nil {
			return err
		}
		return sleep(ctx, timings.ScriptSettle)
	}
}
