// Package eudamed scrapes the manufacturer list of the EUDAMED economic
// operator search screen.
package eudamed

import "eudamed_scraper/internal/browser"

// DefaultURL lists manufacturers, historical versions included.
const DefaultURL = "https://ec.europa.eu/tools/eudamed/#/screen/search-eo?actorTypeCode=refdata.actor-type.manufacturer&includeHistoricalVersion=true&submitted=true"

// SheetName is the tab the records are written to.
const SheetName = "Manufacturers"

// Every selector that depends on the EUDAMED markup lives here.
var (
	PageSizeTrigger = browser.Locator{Name: "page size dropdown", CSS: ".p-dropdown-trigger"}
	PageSizeOption  = browser.Locator{Name: "page size option 50", XPath: "//li[text()='50']"}
	TableRows       = browser.Locator{Name: "table rows", CSS: "tbody tr"}
	NextPage        = browser.Locator{Name: "next page button", XPath: "//button[contains(@class,'p-paginator-next')]"}
)

// Selectors applied to a single row's HTML.
const (
	CellSelector = "td"
	// ColumnTitleSelector matches the labels PrimeNG renders inside cells for
	// the stacked mobile layout; they are hidden on desktop.
	ColumnTitleSelector = ".p-column-title"
)

const (
	openPageSizeScript = `() => document.querySelector(".p-dropdown").click()`
	pickPageSizeScript = `() => document.querySelector("li[aria-label='50']").click()`
)
