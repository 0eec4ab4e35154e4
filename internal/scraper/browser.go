package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Navigator loads a URL in a rendering engine and returns the document after
// page JavaScript has run. The target site gates non-browser clients behind a
// JavaScript challenge, so a plain HTTP client cannot implement this usefully
// in production; tests substitute a canned-document fake.
type Navigator interface {
	Fetch(ctx context.Context, pageURL, waitSelector string) (*goquery.Document, error)
}

// Browser is the chromedp-backed Navigator. One headless Chrome process is
// shared through the allocator; every Fetch runs in a fresh tab context with
// its own deadline so a stuck navigation never wedges the process.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	pageTimeout time.Duration
}

// NewBrowser starts the shared Chrome allocator.
func NewBrowser(pageTimeout time.Duration) *Browser {
	if pageTimeout <= 0 {
		pageTimeout = 15 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(desktopUserAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Browser{allocCtx: allocCtx, allocCancel: cancel, pageTimeout: pageTimeout}
}

// Close tears down the Chrome process.
func (b *Browser) Close() {
	b.allocCancel()
}

// Fetch navigates to the URL, waits for the anti-bot challenge to resolve and
// real content to appear, and returns the rendered DOM.
func (b *Browser) Fetch(ctx context.Context, pageURL, waitSelector string) (*goquery.Document, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	runCtx, cancel := context.WithTimeout(tabCtx, b.pageTimeout)
	defer cancel()

	// Respect the caller's deadline/cancellation too.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetUserAgentOverride(desktopUserAgent).Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Wait for real content; while the challenge interstitial is
			// still resolving the selector is absent, so fall back to a
			// short settle delay and let extraction decide.
			waitCtx, cancelWait := context.WithTimeout(ctx, 5*time.Second)
			defer cancelWait()
			if err := chromedp.WaitVisible(waitSelector, chromedp.ByQuery).Do(waitCtx); err != nil {
				log.Printf("selector %q not visible yet, settling: %v", waitSelector, err)
				return chromedp.Sleep(time.Second).Do(ctx)
			}
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page %s: %w", pageURL, err)
	}
	return doc, nil
}

var _ Navigator = (*Browser)(nil)
