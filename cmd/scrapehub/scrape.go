package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/scrapehub"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	var v any
	if c.Debug {
		report, err := deps.Scraper.Inspect(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrapehub.ErrorMessage(err))
			return err
		}
		v = []*scrapehub.DebugReport{report}
	} else {
		results, err := deps.Scraper.Scrape(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrapehub.ErrorMessage(err))
			return err
		}
		if results == nil {
			results = []*scrapehub.ArticleResult{}
		}
		v = results
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
