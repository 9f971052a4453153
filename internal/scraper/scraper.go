package scraper

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"mspro-labs/sole-scout/internal/config"
	"mspro-labs/sole-scout/internal/extract"
	"mspro-labs/sole-scout/internal/models"
)

var logger = log.New(os.Stdout, "SCRAPER: ", log.LstdFlags|log.Lshortfile)

// Run fetches a single review page with a headless browser and extracts the
// shoe specs from its text. shoeName may be empty; the page title is used
// as a fallback.
func Run(cfg *config.ScrapeConfig, pageURL, shoeName string) (models.ShoeSpecs, error) {
	logger.Println("Launching headless browser...")
	browser, err := launchBrowser()
	if err != nil {
		return models.ShoeSpecs{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.MustClose()

	logger.Printf("Navigating to: %s", pageURL)
	html, err := fetchHTML(browser, cfg, pageURL)
	if err != nil {
		return models.ShoeSpecs{}, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	logger.Println("Parsing HTML content...")
	specs, err := ParsePage(html, cfg, shoeName)
	if err != nil {
		return models.ShoeSpecs{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	specs.Sources = []models.ShoeSource{{Title: specs.Name, URL: pageURL, Score: 1.0}}

	return specs, nil
}

func launchBrowser() (*rod.Browser, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}
	return rod.New().ControlURL(u).MustConnect(), nil
}

func fetchHTML(browser *rod.Browser, cfg *config.ScrapeConfig, pageURL string) (string, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return "", err
	}

	// Generic panic recovery to ensure browser cleanup
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("Panic in fetchHTML: %v", r)
			page.MustClose()
		}
	}()

	page = page.Timeout(90 * time.Second)

	logger.Println("Navigating...")
	page.MustNavigate(pageURL)
	page.MustWaitStable()

	// Handle Cookie Consent
	if sel := cfg.Selectors.CookieButton; sel != "" {
		logger.Printf("Looking for cookie button: %s", sel)
		// Try to find and click, but don't fail the scrape if it's missing
		_ = rod.Try(func() {
			page.Timeout(5 * time.Second).MustElement(sel).MustClick()
			page.MustWaitStable()
		})
	}

	// Handle Newsletter Popup
	if sel := cfg.Selectors.NewsletterPopup; sel != "" {
		logger.Printf("Looking for newsletter popup: %s", sel)
		_ = rod.Try(func() {
			page.Timeout(5 * time.Second).MustElement(sel).MustClick()
			page.MustWaitStable()
		})
	}

	// Wait for the review content
	if sel := cfg.Selectors.ContentWait; sel != "" {
		logger.Printf("Waiting for content: %s", sel)
		page.MustWaitElementsMoreThan(sel, 0)
	}

	return page.HTML()
}

// ParsePage pulls the shoe name and spec fields out of review-page HTML.
// Separated from the browser so it can be tested on static fixtures.
func ParsePage(html string, cfg *config.ScrapeConfig, shoeName string) (models.ShoeSpecs, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ShoeSpecs{}, err
	}

	sel := cfg.Selectors

	if shoeName == "" && sel.ProductName != "" {
		shoeName = strings.TrimSpace(doc.Find(sel.ProductName).First().Text())
	}
	if shoeName == "" {
		shoeName = strings.TrimSpace(doc.Find("title").First().Text())
	}

	// Prefer the configured content container; fall back to the whole body.
	container := doc.Find("body")
	if sel.Content != "" {
		if found := doc.Find(sel.Content); found.Length() > 0 {
			container = found
		}
	}

	// Normalize block elements to sentence-ish text for the extractor.
	var blocks []string
	container.Find("p, li, td, h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		blocks = append(blocks, strings.TrimSpace(container.Text()))
	}

	specs := extract.FromSnippets(shoeName, blocks)
	if specs.Summary == "" && len(blocks) > 0 {
		summary := blocks[0]
		if len(summary) > 300 {
			summary = summary[:300]
		}
		specs.Summary = summary
	}
	return specs, nil
}
