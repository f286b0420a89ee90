package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/scrape"
)

const (
	// pollInterval paces both the endpoint wait and the page readiness probes.
	pollInterval = 250 * time.Millisecond

	// scrollSettle gives the lazy loader a moment after the scroll pass.
	scrollSettle = 500 * time.Millisecond
)

// readyExpression probes document state and how many result cards have
// rendered. The page counts as ready once both are there.
const readyExpression = `(() => ({
	state: document.readyState,
	cards: document.querySelectorAll(".s-item").length,
}))()`

const scrollExpression = `window.scrollTo(0, document.body.scrollHeight)`

// extractExpression lifts every result card into a plain object. Field names
// line up with the scrape card JSON tags.
const extractExpression = `(() => {
	const cards = [];
	for (const item of document.querySelectorAll(".s-item")) {
		const pick = (sel) => {
			const el = item.querySelector(sel);
			return el ? el.textContent.trim() : "";
		};
		const link = item.querySelector("a.s-item__link");
		cards.push({
			title: pick(".s-item__title"),
			price: pick(".s-item__price"),
			condition: pick(".SECONDARY_INFO"),
			sold_date: pick(".s-item__caption") || pick(".POSITIVE"),
			url: link ? link.href : "",
		});
	}
	return { locale: navigator.language || "", cards: cards };
})()`

// pageExtract mirrors the payload extractExpression assembles in the page.
type pageExtract struct {
	Locale string        `json:"locale"`
	Cards  []scrape.Card `json:"cards"`
}

// readyProbe mirrors the readyExpression payload.
type readyProbe struct {
	State string `json:"state"`
	Cards int    `json:"cards"`
}

// NavigateAndExtract loads the sold-listings search page for the query, waits
// for the results root to render, scrolls once and lifts the raw cards. The
// per-fetch deadline arrives through ctx.
func (c *Chrome) NavigateAndExtract(ctx context.Context, query string) (*scrape.PageExtract, error) {
	target := searchURL(c.config.MarketplaceURL, query)
	c.logger.Debug("browser-navigating",
		zap.String("query", query),
		zap.String("url", target))

	start := time.Now()
	_, err := c.call(ctx, "Page.navigate", map[string]any{"url": target})
	if err != nil {
		NavigationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("navigate: %w", err)
	}

	err = c.awaitReady(ctx)
	if err != nil {
		NavigationsTotal.WithLabelValues("timeout").Inc()
		return nil, err
	}

	// One scroll pass prompts the lazy loader to fill in below-fold cards.
	err = c.evaluate(ctx, scrollExpression, nil)
	if err != nil {
		c.logger.Debug("browser-scroll-failed", zap.Error(err))
	}
	c.settle(ctx, scrollSettle)

	var page pageExtract
	err = c.evaluate(ctx, extractExpression, &page)
	if err != nil {
		NavigationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("extract cards: %w", err)
	}

	// Raw HTML is diagnostic only; a page that will not serialize is not
	// worth failing the fetch over.
	var rawHTML string
	err = c.evaluate(ctx, `document.documentElement.outerHTML`, &rawHTML)
	if err != nil {
		c.logger.Debug("browser-raw-html-unavailable", zap.Error(err))
	}

	NavigationsTotal.WithLabelValues("ok").Inc()
	NavigationDurationSeconds.Observe(time.Since(start).Seconds())
	c.logger.Debug("browser-page-extracted",
		zap.String("query", query),
		zap.Int("cards", len(page.Cards)),
		zap.String("locale", page.Locale))

	return &scrape.PageExtract{
		RawHTML: rawHTML,
		Cards:   page.Cards,
		Locale:  page.Locale,
	}, nil
}

// awaitReady polls the page until the document is complete and at least one
// result card has rendered.
func (c *Chrome) awaitReady(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var probe readyProbe
		err := c.evaluate(ctx, readyExpression, &probe)
		if err != nil {
			c.logger.Debug("browser-ready-probe-failed", zap.Error(err))
		} else if probe.State == "complete" && probe.Cards > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("results root not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// settle waits briefly, returning early on cancellation.
func (c *Chrome) settle(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// searchURL appends the query and the sold-plus-completed filters to the
// configured marketplace endpoint.
func searchURL(base, query string) string {
	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}
