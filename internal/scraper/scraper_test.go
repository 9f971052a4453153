package scraper

import (
	"testing"

	"mspro-labs/sole-scout/internal/config"
)

// TestParsePage provides a static HTML string and a mock configuration to
// test review-page parsing without a browser.
func TestParsePage(t *testing.T) {
	mockCfg := &config.ScrapeConfig{
		Selectors: config.Selectors{
			ProductName: "h1.review-title",
			Content:     "div.review-body",
		},
	}

	const sampleHTML = `
<html>
<head><title>Some Review Site</title></head>
<body>
  <nav><p>Weighs 99 oz — unrelated navigation junk that must be ignored.</p></nav>
  <h1 class="review-title">Nike Pegasus 41</h1>
  <div class="review-body">
    <p>The Pegasus returns as a dependable daily trainer with plush yet responsive cushioning.</p>
    <ul>
      <li>Heel-to-toe drop of 10mm</li>
      <li>Stack height: 37mm/27mm</li>
      <li>Weight: 9.8 oz (men's size 9)</li>
    </ul>
  </div>
</body>
</html>
	`

	specs, err := ParsePage(sampleHTML, mockCfg, "")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}

	if specs.Name != "Nike Pegasus 41" {
		t.Errorf("Name wrong: expected 'Nike Pegasus 41', got '%s'", specs.Name)
	}
	if specs.HeelToToeDrop != "10mm" {
		t.Errorf("Drop wrong: expected '10mm', got '%s'", specs.HeelToToeDrop)
	}
	if specs.StackHeight != "37mm/27mm" {
		t.Errorf("Stack wrong: expected '37mm/27mm', got '%s'", specs.StackHeight)
	}
	if specs.Weight != "9.8oz" {
		t.Errorf("Weight wrong: expected '9.8oz', got '%s'", specs.Weight)
	}
	if specs.Cushioning == "" {
		t.Error("Expected a cushioning description from the review body")
	}
	if specs.Summary == "" {
		t.Error("Expected a summary from the first content block")
	}
}

func TestParsePageExplicitNameAndFallbacks(t *testing.T) {
	cfg := &config.ScrapeConfig{}

	const bareHTML = `<html><head><title>Ghost 16 Review | Example</title></head>
<body><p>An 8mm drop and balanced cushioning make the Ghost a safe pick.</p></body></html>`

	// Explicit name wins over anything on the page.
	specs, err := ParsePage(bareHTML, cfg, "Brooks Ghost 16")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if specs.Name != "Brooks Ghost 16" {
		t.Errorf("explicit name not honored: %q", specs.Name)
	}
	if specs.HeelToToeDrop != "8mm" {
		t.Errorf("Drop wrong: got %q", specs.HeelToToeDrop)
	}

	// Without a name or selector, the page title is the fallback.
	specs, err = ParsePage(bareHTML, cfg, "")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if specs.Name != "Ghost 16 Review | Example" {
		t.Errorf("title fallback wrong: %q", specs.Name)
	}
}
