package extract

import "testing"

func TestFromSnippetsTypicalPhrasings(t *testing.T) {
	snippets := []string{
		"The Nike Pegasus 41 has a heel-to-toe drop of 10mm and weighs 9.8 oz in a men's size 9.",
		"Stack height: 37mm/27mm. The ReactX foam gives a responsive yet plush cushioned ride.",
	}

	specs := FromSnippets("Nike Pegasus 41", snippets)

	if specs.Name != "Nike Pegasus 41" {
		t.Errorf("name wrong: %q", specs.Name)
	}
	if specs.HeelToToeDrop != "10mm" {
		t.Errorf("drop: expected 10mm, got %q", specs.HeelToToeDrop)
	}
	if specs.StackHeight != "37mm/27mm" {
		t.Errorf("stack: expected 37mm/27mm, got %q", specs.StackHeight)
	}
	if specs.Weight != "9.8oz" {
		t.Errorf("weight: expected 9.8oz, got %q", specs.Weight)
	}
	if specs.Cushioning == "" {
		t.Error("expected a cushioning description")
	}
}

func TestFromSnippetsAlternatePhrasings(t *testing.T) {
	cases := []struct {
		name    string
		snippet string
		check   func(t *testing.T, drop, stack, weight string)
	}{
		{
			name:    "drop before keyword",
			snippet: "An 8mm drop makes this a traditional trainer.",
			check: func(t *testing.T, drop, _, _ string) {
				if drop != "8mm" {
					t.Errorf("drop: got %q", drop)
				}
			},
		},
		{
			name:    "heel and forefoot pair",
			snippet: "It measures 36mm in the heel and 28mm in the forefoot.",
			check: func(t *testing.T, _, stack, _ string) {
				if stack != "36mm/28mm" {
					t.Errorf("stack: got %q", stack)
				}
			},
		},
		{
			name:    "weight in grams",
			snippet: "The shoe weighs 278 grams.",
			check: func(t *testing.T, _, _, weight string) {
				if weight != "278g" {
					t.Errorf("weight: got %q", weight)
				}
			},
		},
		{
			name:    "offset wording",
			snippet: "Runners World lists an offset of 6 mm.",
			check: func(t *testing.T, drop, _, _ string) {
				if drop != "6mm" {
					t.Errorf("drop: got %q", drop)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			specs := FromSnippets("X", []string{tc.snippet})
			tc.check(t, specs.HeelToToeDrop, specs.StackHeight, specs.Weight)
		})
	}
}

// Zero results from the search client must yield an all-empty record, never
// an error or panic.
func TestFromSnippetsEmptyInput(t *testing.T) {
	specs := FromSnippets("Ghost 16", nil)
	if specs.Name != "Ghost 16" {
		t.Errorf("name wrong: %q", specs.Name)
	}
	if specs.HeelToToeDrop != "" || specs.StackHeight != "" || specs.Weight != "" || specs.Cushioning != "" {
		t.Errorf("expected empty fields, got %+v", specs)
	}
}

func TestFromSnippetsMalformedInput(t *testing.T) {
	garbage := []string{"", "mm mm mm drop drop", "weight: many oz", "!!!", "stack height: tall"}
	specs := FromSnippets("X", garbage)
	if specs.HeelToToeDrop != "" || specs.Weight != "" {
		t.Errorf("expected no matches from garbage, got %+v", specs)
	}
}

func TestFirstMatchWins(t *testing.T) {
	snippets := []string{
		"Heel-to-toe drop of 8mm.",
		"Heel-to-toe drop of 12mm.",
	}
	specs := FromSnippets("X", snippets)
	if specs.HeelToToeDrop != "8mm" {
		t.Errorf("expected first match 8mm, got %q", specs.HeelToToeDrop)
	}
}

func TestFromText(t *testing.T) {
	page := "Specs at a glance. Weight: 10.2 oz. Stack height: 38mm/30mm. Drop: 8mm. A plush max-cushion ride for long miles."
	specs := FromText("Gel-Nimbus 26", page)
	if specs.Weight != "10.2oz" || specs.StackHeight != "38mm/30mm" || specs.HeelToToeDrop != "8mm" {
		t.Errorf("page extraction wrong: %+v", specs)
	}
	if specs.Cushioning == "" {
		t.Error("expected cushioning sentence from page text")
	}
}
