package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/icewatch/ice-news-monitor/internal/model"
)

// NewsRepository fetches the news page and extracts the latest item.
type NewsRepository interface {
	FetchLatest(ctx context.Context) (model.NewsItem, error)
}

type newsRepository struct {
	httpClient *http.Client
	pageURL    string
	userAgent  string
}

// NewNewsRepository creates a news repository for the given page URL.
func NewNewsRepository(pageURL string) NewsRepository {
	return &newsRepository{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pageURL:   pageURL,
		userAgent: "Ice News Monitor Bot/1.0",
	}
}

// FetchLatest performs one GET against the news page and returns the single
// most-recent item. Failures are either a *FetchError (page unreachable) or
// a *ParseError (page loaded but not recognizable).
func (n *newsRepository) FetchLatest(ctx context.Context) (model.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", n.pageURL, nil)
	if err != nil {
		return model.NewsItem{}, &FetchError{URL: n.pageURL, Err: err}
	}

	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "text/html, application/xhtml+xml")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return model.NewsItem{}, &FetchError{URL: n.pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.NewsItem{}, &FetchError{URL: n.pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.NewsItem{}, &ParseError{Reason: fmt.Sprintf("building document: %v", err)}
	}

	items, err := extractItems(doc, n.pageURL)
	if err != nil {
		return model.NewsItem{}, err
	}

	return items[0], nil
}

// extractItems parses the page into news items, newest first. The accordion
// list the page normally uses is preferred; a generic article-selector
// fallback covers redesigns.
func extractItems(doc *goquery.Document, pageURL string) ([]model.NewsItem, error) {
	if accordion := findAccordion(doc); accordion != nil {
		items := extractCollapsibleItems(accordion, pageURL)
		if len(items) == 0 {
			return nil, &ParseError{Reason: "news list present but contains no items"}
		}
		return items, nil
	}

	container := findArticleContainers(doc)
	if container == nil {
		return nil, &ParseError{Reason: "no recognizable news structure (collapsible list or article containers)"}
	}

	items := extractArticleItems(container, pageURL)
	if len(items) == 0 {
		return nil, &ParseError{Reason: "news list present but contains no items"}
	}
	return items, nil
}

// findAccordion locates the accordion-style news list, preferring the one
// following an "Ice News" heading.
func findAccordion(doc *goquery.Document) *goquery.Selection {
	var accordion *goquery.Selection

	doc.Find("h2, h3").EachWithBreak(func(i int, heading *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(heading.Text()))
		if !strings.HasPrefix(text, "ice news") {
			return true
		}
		if next := heading.NextAllFiltered("ul.collapsible").First(); next.Length() > 0 {
			accordion = next
			return false
		}
		return true
	})

	if accordion == nil {
		if first := doc.Find("ul.collapsible").First(); first.Length() > 0 {
			accordion = first
		}
	}

	return accordion
}

var (
	iconLabelRe  = regexp.MustCompile(`\b(keyboard_arrow_right|terrain)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	titleDateRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
)

// cleanHeaderText removes material-icon labels the accordion headers carry
// and collapses whitespace.
func cleanHeaderText(text string) string {
	cleaned := iconLabelRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// dateFromTitle parses a date from a header like "Ice News 22.02.2026".
func dateFromTitle(title string) (time.Time, string) {
	match := titleDateRe.FindStringSubmatch(title)
	if match == nil {
		return time.Time{}, ""
	}

	day := atoi(match[1])
	month := atoi(match[2])
	year := atoi(match[3])
	if year < 100 {
		year += 2000
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values; reject those.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, ""
	}
	return t, match[0]
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func extractCollapsibleItems(accordion *goquery.Selection, pageURL string) []model.NewsItem {
	type datedItem struct {
		item model.NewsItem
		date time.Time
	}
	var entries []datedItem

	accordion.ChildrenFiltered("li").Each(func(i int, entry *goquery.Selection) {
		title := cleanHeaderText(entry.Find(".collapsible-header").First().Text())

		var paragraphs []string
		entry.Find(".collapsible-body p").Each(func(i int, para *goquery.Selection) {
			if text := strings.TrimSpace(whitespaceRe.ReplaceAllString(para.Text(), " ")); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		snippet := strings.Join(paragraphs, "\n\n")

		if title == "" && snippet == "" {
			return
		}

		date, raw := dateFromTitle(title)
		entries = append(entries, datedItem{
			item: model.NewsItem{Title: title, Snippet: snippet, Link: pageURL, RawDate: raw},
			date: date,
		})
	})

	// Newest first. Stable, so undated items keep their document order
	// behind the dated ones.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.After(entries[j].date)
	})

	items := make([]model.NewsItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item)
	}
	return items
}

// articleSelectors are tried in order of preference when no accordion list
// is present.
var articleSelectors = []string{
	"article.news-item",
	"article",
	".news-list-item",
	".news-item",
	".teaser",
}

func findArticleContainers(doc *goquery.Document) *goquery.Selection {
	for _, selector := range articleSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func extractArticleItems(container *goquery.Selection, pageURL string) []model.NewsItem {
	base, _ := url.Parse(pageURL)

	var items []model.NewsItem
	container.Each(func(i int, article *goquery.Selection) {
		titleSel := article.Find("h1, h2, h3, h4").First()
		if titleSel.Length() == 0 {
			titleSel = article.Find(`[class*="title"]`).First()
		}
		title := strings.TrimSpace(whitespaceRe.ReplaceAllString(titleSel.Text(), " "))

		snippetSel := article.Find("p").First()
		if snippetSel.Length() == 0 {
			snippetSel = article.Find(`[class*="teaser"], [class*="summary"]`).First()
		}
		snippet := strings.TrimSpace(whitespaceRe.ReplaceAllString(snippetSel.Text(), " "))

		link := pageURL
		if href, ok := article.Find("a[href]").First().Attr("href"); ok && href != "" {
			if ref, err := url.Parse(href); err == nil && base != nil {
				link = base.ResolveReference(ref).String()
			}
		}

		if title != "" || snippet != "" {
			items = append(items, model.NewsItem{Title: title, Snippet: snippet, Link: link})
		}
	})

	return items
}
