package eudamed

import (
	"context"
	"fmt"
	"time"

	"eudamed_scraper/internal/browser"
	"eudamed_scraper/internal/config"
)

// sleep pauses for d, returning early with the context's error if it ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// click clicks el under its own deadline. A zero timeout uses the default.
func click(ctx context.Context, el browser.Element, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = config.DefaultTimings.ClickWait
	}
	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := el.Click(clickCtx); err != nil {
		if clickCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("click did not complete within %s: %w", timeout, err)
		}
		return err
	}
	return nil
}
