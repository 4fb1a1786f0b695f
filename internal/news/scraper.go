package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-companion/internal/logger"
	"stock-companion/internal/types"
)

// Scraper collects headlines from financial news sites.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source defines one news site: where to search for a symbol and how to
// pick headlines out of the page.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the ticker
	Selectors  HeadlineSelectors
	RateLimit  time.Duration
}

// HeadlineSelectors are the CSS selectors for extracting headline data.
type HeadlineSelectors struct {
	Container   string
	Title       string
	URL         string
	PublishedAt string
}

// NewScraper creates a scraper over the default sources.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

// defaultSources lists the sites scraped for a symbol. Selectors track
// the current page layouts and need occasional upkeep.
func defaultSources() []Source {
	return []Source{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: HeadlineSelectors{
				Container:   "li.stream-item",
				Title:       "h3",
				URL:         "a",
				PublishedAt: "div.publishing",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "MarketWatch",
			BaseURL:    "https://www.marketwatch.com",
			SearchPath: "/investing/stock/{symbol}",
			Selectors: HeadlineSelectors{
				Container:   "div.article__content",
				Title:       "a.link",
				URL:         "a.link",
				PublishedAt: "span.article__timestamp",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape fetches headlines for a symbol from all sources. Source failures
// are logged and skipped; an empty result is not an error here.
func (s *Scraper) Scrape(ctx context.Context, symbol string, maxHeadlines int) ([]types.Headline, error) {
	logger.Info(ctx, "Starting news scraping", "symbol", symbol, "sources", len(s.sources))

	all := []types.Headline{}
	perSource := maxHeadlines / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	for _, source := range s.sources {
		headlines, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		all = append(all, headlines...)

		// Rate limiting between sources
		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "News scraping completed", "symbol", symbol, "headlines", len(all))
	return all, nil
}

// scrapeSource scrapes headlines from a single source.
func (s *Scraper) scrapeSource(ctx context.Context, source Source, symbol string, maxHeadlines int) ([]types.Headline, error) {
	headlines := []types.Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		headlineURL := e.ChildAttr(source.Selectors.URL, "href")
		if headlineURL == "" {
			return
		}
		if !strings.HasPrefix(headlineURL, "http") {
			headlineURL = source.BaseURL + headlineURL
		}

		headlines = append(headlines, types.Headline{
			Title:       title,
			Source:      source.Name,
			URL:         headlineURL,
			PublishedAt: parseRelativeTime(childText(e.DOM, source.Selectors.PublishedAt)),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToUpper(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return headlines, nil
}

// childText pulls trimmed text out of the first match of a selector.
func childText(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// parseRelativeTime turns "2 hours ago" style stamps into an approximate
// time. Unparseable stamps fall back to now; headline recency only feeds
// logging, not scoring.
func parseRelativeTime(stamp string) time.Time {
	now := time.Now().UTC()
	fields := strings.Fields(strings.ToLower(stamp))
	for i := 0; i < len(fields)-1; i++ {
		n := 0
		if _, err := fmt.Sscanf(fields[i], "%d", &n); err != nil || n <= 0 {
			continue
		}
		switch {
		case strings.HasPrefix(fields[i+1], "minute"):
			return now.Add(-time.Duration(n) * time.Minute)
		case strings.HasPrefix(fields[i+1], "hour"):
			return now.Add(-time.Duration(n) * time.Hour)
		case strings.HasPrefix(fields[i+1], "day"):
			return now.AddDate(0, 0, -n)
		}
	}
	return now
}

// hostOf extracts the hostname from a URL.
func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ScrapeGoogleNews searches Google News for company headlines, used as a
// fallback when the primary sources return nothing.
func (s *Scraper) ScrapeGoogleNews(ctx context.Context, symbol string, maxHeadlines int) ([]types.Headline, error) {
	headlines := []types.Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}

		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		headlines = append(headlines, types.Headline{
			Title:       title,
			Source:      "GoogleNews",
			URL:         link,
			PublishedAt: time.Now().UTC(),
		})
	})

	searchQuery := url.QueryEscape(symbol + " stock news")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", searchQuery)

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	logger.Info(ctx, "Google News scraping completed", "symbol", symbol, "headlines", len(headlines))
	return headlines, nil
}
