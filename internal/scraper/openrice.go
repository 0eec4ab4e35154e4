package scraper

import (
	"context"
	"log"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mealcompass/backend/internal/entity"
	"github.com/mealcompass/backend/internal/metrics"
)

// Selectors that mark real page content; the anti-bot interstitial carries
// none of them.
const (
	searchReadySelector = "div.poi-list-cell, div.pois-restaurant-list-cell"
	detailReadySelector = "section.address-section, div.poi-name"
	photosReadySelector = "div.media-item-thumbnail-media"
)

// Options tunes the OpenRice scraper. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	MaxImages  int
	MaxReviews int
	// Politeness delay bounds between page navigations. DelayMax <= 0
	// disables the delay entirely, which tests rely on.
	DelayMin time.Duration
	DelayMax time.Duration
}

// OpenRice extracts restaurant enrichment data from openrice.com listings.
type OpenRice struct {
	nav  Navigator
	opts Options
}

func NewOpenRice(nav Navigator, opts Options) *OpenRice {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.openrice.com"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxImages <= 0 {
		opts.MaxImages = 3
	}
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = 5
	}
	return &OpenRice{nav: nav, opts: opts}
}

// candidate is one search-result row before matching.
type candidate struct {
	name       string
	detailURL  string
	district   string
	cuisines   []string
	priceRange string
	smileCount *int
	cryCount   *int
	imageURL   string
}

// Scrape looks the restaurant up by name and returns whatever could be
// extracted. Failures at any step degrade to an unmatched record rather than
// an error; only matched records are worth keeping.
func (o *OpenRice) Scrape(ctx context.Context, query string, details bool) entity.Enrichment {
	metrics.Scrapes.Inc()

	searchURL := o.opts.BaseURL + "/en/hongkong/restaurants?whatwhere=" + url.QueryEscape(query)
	doc, err := o.nav.Fetch(ctx, searchURL, searchReadySelector)
	if err != nil {
		log.Printf("scrape search failed query=%q err=%v", query, err)
		metrics.ScrapeFailures.Inc()
		return entity.Unmatched(query)
	}

	candidates := parseSearchResults(doc, o.opts.BaseURL)
	if len(candidates) == 0 {
		log.Printf("scrape no candidates query=%q", query)
		metrics.ScrapeFailures.Inc()
		return entity.Unmatched(query)
	}

	best, confidence := bestMatch(query, candidates)
	if confidence < 0.3 {
		log.Printf("scrape no confident match query=%q best=%q confidence=%.2f", query, best.name, confidence)
		metrics.ScrapeFailures.Inc()
		return entity.Unmatched(query)
	}

	record := entity.Enrichment{
		Query:        query,
		Matched:      true,
		Confidence:   confidence,
		Name:         strp(best.name),
		OpenriceID:   strp(idFromDetailURL(best.detailURL)),
		DetailURL:    strp(best.detailURL),
		District:     strp(best.district),
		CuisineTypes: best.cuisines,
		PriceRange:   strp(best.priceRange),
		ScrapedAt:    time.Now().UTC(),
	}
	if best.smileCount != nil || best.cryCount != nil {
		record.Reviews = &entity.ReviewSummary{
			SmileCount: best.smileCount,
			CryCount:   best.cryCount,
		}
	}
	if best.imageURL != "" {
		record.MainImage = strp(best.imageURL)
		record.Images = []entity.EnrichmentImage{{URL: best.imageURL, IsMain: true}}
	}

	if details && best.detailURL != "" {
		o.pause()
		o.scrapeDetails(ctx, best.detailURL, &record)
		o.pause()
		o.scrapePhotos(ctx, best.detailURL, &record)
	}
	return record
}

// scrapeDetails fills address, phone, rating and review extracts from the
// restaurant's detail page. A failed navigation leaves the search-derived
// fields intact.
func (o *OpenRice) scrapeDetails(ctx context.Context, detailURL string, record *entity.Enrichment) {
	doc, err := o.nav.Fetch(ctx, detailURL, detailReadySelector)
	if err != nil {
		log.Printf("scrape detail failed url=%s err=%v", detailURL, err)
		return
	}

	if addr := cleanText(doc.Find("section.address-section span.address").First().Text()); addr != "" {
		record.Address = strp(addr)
	}
	if href, ok := doc.Find("a[href^='tel:']").First().Attr("href"); ok {
		record.Phone = strp(cleanText(strings.TrimPrefix(href, "tel:")))
	}
	if score := cleanText(doc.Find("div.header-score").First().Text()); score != "" {
		if v, err := strconv.ParseFloat(score, 64); err == nil {
			ensureReviews(record).Rating = &v
		}
	}
	if count := digitsOnly(doc.Find("span.review-count").First().Text()); count != "" {
		if v, err := strconv.Atoi(count); err == nil {
			ensureReviews(record).ReviewCount = &v
		}
	}

	doc.Find("div.review-post-trim-desktop.poi-detail-review-trim").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := cleanText(s.Find("div.review-post-extract").First().Text())
		if text != "" {
			record.ReviewTexts = append(record.ReviewTexts, text)
		}
		return len(record.ReviewTexts) < o.opts.MaxReviews
	})
}

// scrapePhotos replaces the thumbnail carried over from search results with
// gallery images from the photos page, when available.
func (o *OpenRice) scrapePhotos(ctx context.Context, detailURL string, record *entity.Enrichment) {
	photosURL := strings.TrimRight(detailURL, "/") + "/photos/all"
	doc, err := o.nav.Fetch(ctx, photosURL, photosReadySelector)
	if err != nil {
		log.Printf("scrape photos failed url=%s err=%v", photosURL, err)
		return
	}

	var images []entity.EnrichmentImage
	doc.Find("div.media-item-thumbnail-media img.media-item-thumbnail-image").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src := imageSource(s)
		if src == "" {
			return true
		}
		images = append(images, entity.EnrichmentImage{
			URL:    src,
			Alt:    cleanText(s.AttrOr("alt", "")),
			IsMain: len(images) == 0,
		})
		return len(images) < o.opts.MaxImages
	})
	if len(images) == 0 {
		return
	}
	record.Images = images
	record.MainImage = strp(images[0].URL)
}

func (o *OpenRice) pause() {
	if o.opts.DelayMax <= 0 {
		return
	}
	min := o.opts.DelayMin
	if min < 0 {
		min = 0
	}
	span := o.opts.DelayMax - min
	d := min
	if span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}

// parseSearchResults pulls candidate rows out of the listing page. When no
// poi-list-cell row parses, the page is in the alternate desktop layout and
// the desktop-main-section rows are parsed instead.
func parseSearchResults(doc *goquery.Document, baseURL string) []candidate {
	var out []candidate
	doc.Find("div.poi-list-cell").Each(func(i int, s *goquery.Selection) {
		c := candidate{
			name:       cleanText(s.Find("div.poi-name").First().Text()),
			district:   cleanText(s.Find("div.poi-addr").First().Text()),
			priceRange: cleanText(s.Find("div.poi-price").First().Text()),
		}
		if c.name == "" {
			return
		}

		if href := restaurantLink(s); href != "" {
			c.detailURL = absoluteURL(baseURL, href)
		}

		if raw := cleanText(s.Find("div.poi-cuisine-short").First().Text()); raw != "" {
			for _, part := range strings.Split(raw, "|") {
				if p := cleanText(part); p != "" {
					c.cuisines = append(c.cuisines, p)
				}
			}
		}

		if n := digitsOnly(s.Find("span.smile-face").First().Text()); n != "" {
			if v, err := strconv.Atoi(n); err == nil {
				c.smileCount = &v
			}
		}
		if n := digitsOnly(s.Find("span.cry-face").First().Text()); n != "" {
			if v, err := strconv.Atoi(n); err == nil {
				c.cryCount = &v
			}
		}

		if img := s.Find("img").First(); img.Length() > 0 {
			c.imageURL = imageSource(img)
		}

		out = append(out, c)
	})
	if len(out) == 0 {
		out = parseDesktopSections(doc, baseURL)
	}
	return out
}

// parseDesktopSections is the alternate-layout parse: only the name and the
// listing link are available on these rows.
func parseDesktopSections(doc *goquery.Document, baseURL string) []candidate {
	var out []candidate
	doc.Find("div.poi-list-cell-desktop-main-section").Each(func(i int, s *goquery.Selection) {
		name := cleanText(s.Find("div.poi-name").First().Text())
		if name == "" {
			return
		}
		href := restaurantLink(s)
		if href == "" {
			return
		}
		out = append(out, candidate{name: name, detailURL: absoluteURL(baseURL, href)})
	})
	return out
}

// restaurantLink finds the listing's main page link. Listing hrefs carry the
// `/r-` slug; rows also link straight to their photo and review tabs, so
// prefer a plain link and strip the tab suffix from whatever was chosen.
func restaurantLink(s *goquery.Selection) string {
	var href, fallback string
	s.Find("a[href*='/r-']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if !ok || h == "" {
			return true
		}
		if fallback == "" {
			fallback = h
		}
		if !strings.Contains(h, "/photos") && !strings.Contains(h, "/reviews") {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		href = fallback
	}
	if i := strings.Index(href, "/photos"); i >= 0 {
		href = href[:i]
	}
	if i := strings.Index(href, "/reviews"); i >= 0 {
		href = href[:i]
	}
	return href
}

// bestMatch scores every candidate against the query and returns the winner.
func bestMatch(query string, candidates []candidate) (candidate, float64) {
	best := candidates[0]
	bestScore := -1.0
	for _, c := range candidates {
		if score := matchConfidence(query, c.name); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

// matchConfidence grades how well a found name answers the query. Exact
// match beats substring containment beats word overlap; names with no words
// in common still get a floor score so a lone plausible result survives.
func matchConfidence(query, found string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	f := strings.ToLower(strings.TrimSpace(found))
	switch {
	case q == "" || f == "":
		return 0
	case q == f:
		return 1.0
	case strings.Contains(f, q):
		return 0.9
	case strings.Contains(q, f):
		return 0.85
	}

	qWords := wordSet(q)
	fWords := wordSet(f)
	overlap := 0
	for w := range qWords {
		if fWords[w] {
			overlap++
		}
	}
	if overlap == 0 {
		return 0.3
	}
	union := len(qWords) + len(fWords) - overlap
	return 0.5 + 0.4*float64(overlap)/float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// idFromDetailURL extracts the trailing listing identifier, e.g.
// ".../tim-ho-wan-sham-shui-po-r12345" -> "r12345".
func idFromDetailURL(detailURL string) string {
	if detailURL == "" {
		return ""
	}
	trimmed := strings.TrimRight(detailURL, "/")
	slug := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if i := strings.LastIndex(slug, "-"); i >= 0 && i+1 < len(slug) {
		return slug[i+1:]
	}
	return slug
}

func absoluteURL(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}

// imageSource prefers the lazy-load attribute the gallery uses over src,
// which often holds a placeholder.
func imageSource(s *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-original", "src"} {
		if v, ok := s.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" && !strings.HasPrefix(v, "data:") {
				return v
			}
		}
	}
	return ""
}

func strp(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ensureReviews(record *entity.Enrichment) *entity.ReviewSummary {
	if record.Reviews == nil {
		record.Reviews = &entity.ReviewSummary{}
	}
	return record.Reviews
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
