package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/askready/askready/internal/models"
)

type ScraperConfig struct {
	Sources          []Source
	RateLimit        float64 // requests per second
	Timeout          time.Duration
	MinContentLength int               // pages with less text are discarded
	UserAgent        string
	OnProgress       func(url string)
}

type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ScraperConfig) (*Scraper, error) {
	if len(config.Sources) == 0 {
		config.Sources = TrustedSources()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 0.5 // one request every two seconds by default
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %f", config.RateLimit)
	}
	if config.MinContentLength == 0 {
		config.MinContentLength = 200
	}
	if config.UserAgent == "" {
		config.UserAgent = "askready/1.0 (+https://github.com/askready/askready)"
	}

	for _, src := range config.Sources {
		if _, err := url.Parse(src.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL for source %s: %w", src.Name, err)
		}
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// ScrapeAll fetches every target page of every configured source. Pages
// that fail or come back too thin are skipped; the remaining documents are
// returned with their source metadata attached.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]models.Document, error) {
	var documents []models.Document

	for _, src := range s.config.Sources {
		base, err := url.Parse(src.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL for source %s: %w", src.Name, err)
		}

		for _, target := range src.Targets {
			ref, err := url.Parse(target)
			if err != nil {
				continue
			}
			pageURL := base.ResolveReference(ref).String()

			doc, err := s.scrapeURL(ctx, pageURL, src.Name)
			if err != nil {
				// One bad page should not sink the whole run.
				continue
			}
			if doc != nil {
				documents = append(documents, *doc)
			}
		}
	}

	return documents, nil
}

func (s *Scraper) scrapeURL(ctx context.Context, pageURL, sourceName string) (*models.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if s.config.OnProgress != nil {
		s.config.OnProgress(pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	content := s.extractMainContent(doc)
	if len(content) < s.config.MinContentLength {
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("title").Text())

	return &models.Document{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL)).String(),
		URL:        pageURL,
		Title:      title,
		SourceName: sourceName,
		Content:    content,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func (s *Scraper) extractMainContent(doc *goquery.Document) string {
	// Strip chrome before looking for content
	doc.Find("script, style, nav, footer, header").Remove()

	selectors := []string{
		"main",
		"article",
		".main-content",
		".content",
		".article",
		".page-content",
		"[role=main]",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	// Fallback to body if no main content found
	if content == "" {
		content = doc.Find("body").Text()
	}

	return s.cleanContent(content)
}

func (s *Scraper) cleanContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")

	noisePatterns := []string{
		"Cookie Policy",
		"Accept Cookies",
		"Privacy Policy",
		"Terms of Service",
	}

	for _, pattern := range noisePatterns {
		content = strings.ReplaceAll(content, pattern, "")
	}

	return strings.TrimSpace(content)
}
