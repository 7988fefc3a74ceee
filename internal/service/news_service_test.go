package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const listingHTML = `<html><body>
<article>
  <a href="./articles/abc123"></a>
  <h3>Global Markets Rally After Rate Cut</h3>
</article>
<article>
  <a href="./articles/def456"></a>
  <h4>New Telescope Spots Distant Galaxy</h4>
</article>
<article>
  <a href="./articles/no-title"></a>
</article>
<article>
  <a href="https://example.com/external"></a>
  <h3>Election Results Announced</h3>
</article>
</body></html>`

func newsServiceForTest(baseURL string, articles int) *NewsService {
	return &NewsService{
		client:   &http.Client{Timeout: 5 * time.Second},
		baseURL:  baseURL,
		articles: articles,
		log:      zerolog.Nop(),
	}
}

func TestParseArticles(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	s := newsServiceForTest("https://news.example.com", 5)
	articles := s.parseArticles(doc)

	// The untitled article is skipped.
	if len(articles) != 3 {
		t.Fatalf("parsed %d articles, want 3", len(articles))
	}
	if articles[0].Title != "Global Markets Rally After Rate Cut" {
		t.Errorf("title = %q", articles[0].Title)
	}
	if articles[0].Link != "https://news.example.com/articles/abc123" {
		t.Errorf("relative link not resolved: %q", articles[0].Link)
	}
	if articles[2].Link != "https://example.com/external" {
		t.Errorf("absolute link rewritten: %q", articles[2].Link)
	}
}

func TestParseArticlesLimit(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	s := newsServiceForTest("https://news.example.com", 1)
	if articles := s.parseArticles(doc); len(articles) != 1 {
		t.Errorf("parsed %d articles, want limit of 1", len(articles))
	}
}

func TestArticleContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "economy" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body>
<article><a href="./story/1"></a><h3>Inflation Slows</h3></article>
</body></html>`))
	})
	mux.HandleFunc("/story/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<p>Short.</p>
<p>Consumer prices rose at the slowest pace in three years, official figures showed on Tuesday.</p>
<p>Economists said the data strengthens the case for a rate cut at the next meeting.</p>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newsServiceForTest(srv.URL, 3)
	ctx := context.Background()

	text, err := s.ArticleContext(ctx, "economy")
	if err != nil {
		t.Fatalf("ArticleContext: %v", err)
	}
	if !strings.Contains(text, "Consumer prices rose") || !strings.Contains(text, "rate cut") {
		t.Errorf("context missing paragraph text: %q", text)
	}
	if strings.Contains(text, "Short.") {
		t.Error("short paragraph should be filtered out")
	}
}

func TestArticleContextTrimsAtRuneBoundary(t *testing.T) {
	long := strings.Repeat("日", articleContextCap)
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<article><a href="./story/1"></a><h3>Tokyo Markets Update</h3></article>
</body></html>`))
	})
	mux.HandleFunc("/story/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newsServiceForTest(srv.URL, 1)
	text, err := s.ArticleContext(context.Background(), "markets")
	if err != nil {
		t.Fatalf("ArticleContext: %v", err)
	}
	if len(text) > articleContextCap {
		t.Fatalf("context is %d bytes, cap is %d", len(text), articleContextCap)
	}
	// 20000 is not a multiple of the 3-byte rune width, so a byte slice
	// at the cap would cut a rune in half.
	if !utf8.ValidString(text) {
		t.Error("capped context contains a split rune")
	}
	if len(text) < articleContextCap-utf8.UTFMax {
		t.Errorf("trimmed %d bytes past the cap", articleContextCap-len(text))
	}
}

func TestArticleContextNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	s := newsServiceForTest(srv.URL, 3)
	if _, err := s.ArticleContext(context.Background(), "nothing"); !errors.Is(err, ErrNoNewsFound) {
		t.Errorf("got %v, want ErrNoNewsFound", err)
	}
}

func TestHeadlineKeywords(t *testing.T) {
	cases := []struct {
		title string
		want  []string
	}{
		{"Global Markets Rally After Rate Cut", []string{"Global", "Markets"}},
		{"the quick brown fox", nil},
		{"NASA, Boeing delay launch", []string{"Boeing"}},
		{"Top Five Best Apps", nil},
	}
	for _, tc := range cases {
		if got := headlineKeywords(tc.title, 2); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("headlineKeywords(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}
