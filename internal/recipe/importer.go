package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"plateplanner/internal/llm"
	"plateplanner/internal/metrics"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Saver persists imported recipes; *Repository satisfies it.
type Saver interface {
	Save(ctx context.Context, rec Recipe) error
}

// MetricRecorder accounts LLM import attempts; nil disables accounting.
type MetricRecorder interface {
	Record(ctx context.Context, m metrics.ImportMetric) error
}

// Importer fetches a recipe page, extracts a structured recipe from it
// and saves the result to the catalog.
type Importer struct {
	client   *resty.Client
	textGen  llm.TextGenerator
	repo     Saver
	recorder MetricRecorder
	provider string
	model    string
}

// NewImporter creates a new Importer.
func NewImporter(textGen llm.TextGenerator, repo Saver) *Importer {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", "plateplanner/1.0")
	return &Importer{
		client:  client,
		textGen: textGen,
		repo:    repo,
	}
}

// EnableMetrics turns on per-import usage accounting. provider and model
// label the configured text generator in the recorded rows.
func (im *Importer) EnableMetrics(recorder MetricRecorder, provider, model string) {
	im.recorder = recorder
	im.provider = provider
	im.model = model
}

// extractedRecipe is the shape the extraction prompt asks for.
type extractedRecipe struct {
	Title       string       `json:"title"`
	CookTime    int          `json:"cook_time_minutes"`
	Calories    int          `json:"calories"`
	Tags        []string     `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

// ImportURL fetches the URL, extracts the recipe and saves it to the
// catalog. The returned recipe carries a freshly assigned ID.
func (im *Importer) ImportURL(ctx context.Context, url string) (*Recipe, error) {
	content, imageURL, err := im.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "cook_time_minutes": 30,
  "calories": 450,
  "tags": ["tag1", "tag2"],
  "ingredients": [{"name": "ingredient name", "quantity": "e.g. 2 cups"}, ...]
}

Use 0 for cook_time_minutes or calories when the page does not state them.
Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Page Content:
%s
`, content)

	start := time.Now()
	llmResponse, err := im.textGen.GenerateContent(ctx, prompt)
	im.record(ctx, url, time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(llmResponse)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}
	if extracted.Title == "" || len(extracted.Ingredients) == 0 {
		return nil, fmt.Errorf("extraction produced no usable recipe for %s", url)
	}

	rec := Recipe{
		ID:          uuid.NewString(),
		Title:       extracted.Title,
		Image:       imageURL,
		CookTime:    extracted.CookTime,
		Calories:    extracted.Calories,
		Tags:        extracted.Tags,
		Ingredients: extracted.Ingredients,
	}

	if err := im.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save imported recipe: %w", err)
	}
	return &rec, nil
}

// record writes a usage row for one extraction attempt. Accounting is
// best effort and never fails the import.
func (im *Importer) record(ctx context.Context, url string, latency time.Duration, succeeded bool) {
	if im.recorder == nil {
		return
	}
	_ = im.recorder.Record(ctx, metrics.ImportMetric{
		Provider:  im.provider,
		Model:     im.model,
		SourceURL: url,
		LatencyMS: latency.Milliseconds(),
		Succeeded: succeeded,
	})
}

// fetchAndCleanHTML downloads the page and returns its visible text with
// scripts, styles and navigation chrome removed to save LLM tokens, plus
// the page's og:image URL when one is declared.
func (im *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, string, error) {
	resp, err := im.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode() != 200 {
		return "", "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", "", err
	}

	imageURL, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), imageURL, nil
}

// stripCodeFence removes a surrounding markdown code fence that some
// models add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
