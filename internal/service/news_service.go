package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewsArticle is one headline found on the news index.
type NewsArticle struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// fallbackTopics is served when the trending scrape yields nothing.
var fallbackTopics = []string{"Technology", "Politics", "Sports", "Health", "Science", "Business"}

const (
	trendingTTL   = time.Hour
	trendingLimit = 10
	browserUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// articleContextCap bounds how much scraped text goes into a prompt.
	articleContextCap = 20000

	// articleContextTTL keeps scraped context around long enough for a
	// regenerate to reuse it without hitting the news site again.
	articleContextTTL = 15 * time.Minute
)

// NewsService scrapes Google News for article context and trending
// topics. The base URL is configurable so tests can point it at a local
// fixture server.
type NewsService struct {
	client   *http.Client
	baseURL  string
	articles int
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *NewsService {
	return &NewsService{
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  strings.TrimRight(cfg.NewsBaseURL, "/"),
		articles: cfg.NewsArticles,
		rdb:      rdb,
		log:      log,
	}
}

func (s *NewsService) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 4<<20))
}

// SearchArticles returns up to the configured number of headlines for a
// topic from the news search page.
func (s *NewsService) SearchArticles(ctx context.Context, topic string) ([]NewsArticle, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&hl=en-IN&gl=IN&ceid=IN%%3Aen", s.baseURL, url.QueryEscape(topic))
	doc, err := s.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	return s.parseArticles(doc), nil
}

// parseArticles extracts headline/link pairs from a news listing page.
func (s *NewsService) parseArticles(doc *goquery.Document) []NewsArticle {
	var articles []NewsArticle
	doc.Find("article").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link, ok := sel.Find("a[href]").First().Attr("href")
		if !ok {
			return true
		}
		title := strings.TrimSpace(sel.Find("h3, h4").First().Text())
		if title == "" {
			return true
		}

		// Listing links are relative ("./articles/...").
		switch {
		case strings.HasPrefix(link, "./"):
			link = s.baseURL + link[1:]
		case !strings.HasPrefix(link, "http"):
			link = s.baseURL + link
		}

		articles = append(articles, NewsArticle{Title: title, Link: link})
		return len(articles) < s.articles
	})
	return articles
}

// ArticleContext scrapes the articles found for a topic and returns their
// combined body text for prompt grounding. Contexts are cached briefly so
// a regenerate right after a generation reuses the same scrape.
func (s *NewsService) ArticleContext(ctx context.Context, topic string) (string, error) {
	key := config.CacheKey.NewsContextKey(topic)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	articles, err := s.SearchArticles(ctx, topic)
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return "", ErrNoNewsFound
	}

	var parts []string
	for _, article := range articles {
		text, err := s.articleText(ctx, article.Link)
		if err != nil {
			s.log.Warn().Err(err).Str("url", article.Link).Msg("article scrape failed")
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoNewsFound
	}

	combined := strings.Join(parts, "\n\n")
	if len(combined) > articleContextCap {
		// Back up to a rune boundary so the cap never splits a
		// multi-byte character.
		cut := articleContextCap
		for cut > 0 && !utf8.RuneStart(combined[cut]) {
			cut--
		}
		combined = combined[:cut]
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, combined, articleContextTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("article context cache write failed")
		}
	}
	return combined, nil
}

// articleText pulls the paragraph text out of one article page.
func (s *NewsService) articleText(ctx context.Context, rawURL string) (string, error) {
	doc, err := s.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); len(text) > 40 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n"), nil
}

// TrendingTopics returns keyword suggestions mined from top headlines,
// cached for an hour. Scrape failures fall back to a static list so the
// endpoint never errors out.
func (s *NewsService) TrendingTopics(ctx context.Context) []string {
	key := config.CacheKey.TrendingTopicsKey()
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var topics []string
		if err := json.Unmarshal([]byte(cached), &topics); err == nil && len(topics) > 0 {
			return topics
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("trending topics cache read failed")
	}

	topics := s.scrapeTrending(ctx)
	if len(topics) == 0 {
		return fallbackTopics
	}

	if encoded, err := json.Marshal(topics); err == nil {
		if err := s.rdb.Set(ctx, key, encoded, trendingTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("trending topics cache write failed")
		}
	}
	return topics
}

func (s *NewsService) scrapeTrending(ctx context.Context) []string {
	doc, err := s.fetch(ctx, s.baseURL+"/topstories?hl=en-IN&gl=IN&ceid=IN:en")
	if err != nil {
		s.log.Warn().Err(err).Msg("trending topics scrape failed")
		return nil
	}

	seen := make(map[string]bool)
	var topics []string
	doc.Find("article").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= 20 || len(topics) >= trendingLimit {
			return false
		}
		title := strings.TrimSpace(sel.Find("h3, h4").First().Text())
		for _, word := range headlineKeywords(title, 2) {
			if !seen[word] {
				seen[word] = true
				topics = append(topics, word)
			}
		}
		return true
	})
	if len(topics) > trendingLimit {
		topics = topics[:trendingLimit]
	}
	return topics
}

// headlineKeywords picks up to max capitalized words longer than four
// characters from a headline. Crude, but good enough for suggestions.
func headlineKeywords(title string, max int) []string {
	var words []string
	for _, word := range strings.Fields(title) {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(trimmed) > 4 && unicode.IsUpper(rune(trimmed[0])) {
			words = append(words, trimmed)
			if len(words) >= max {
				break
			}
		}
	}
	return words
}
