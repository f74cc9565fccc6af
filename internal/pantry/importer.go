package pantry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meal-agent/internal/extract"
	"meal-agent/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

// Importer builds an ingredient inventory from a web page, e.g. a shared
// shopping list, a pantry note, or a recipe page the user wants to cook from.
type Importer struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewImporter creates a new Importer instance.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ImportURL fetches the URL and extracts an ingredient inventory using the LLM.
func (i *Importer) ImportURL(ctx context.Context, url string) ([]string, error) {
	content, err := i.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a kitchen inventory assistant. Extract every food ingredient mentioned in the following page content.
Return the result strictly as a JSON object with this structure:
{
  "ingredients": ["ingredient 1", "ingredient 2", ...]
}

Rules:
- Use plain ingredient names without quantities (e.g. "chicken breast", not "500g chicken breast").
- Skip non-food items, equipment, and brand chatter.

Page Content:
%s
`, content)

	resp, err := i.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted struct {
		Ingredients []string `json:"ingredients"`
	}
	payload := extract.JSON(resp.Content)
	if err := json.Unmarshal([]byte(payload), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}

	if len(extracted.Ingredients) == 0 {
		return nil, fmt.Errorf("no ingredients found at %s", url)
	}

	return extracted.Ingredients, nil
}

func (i *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
