package ui

import (
	"github.com/LeeLars/structon-cart/internal/domain"
)

// Storefront locales. DefaultLocale is Belgian Dutch, like the site itself.
const DefaultLocale = "be-nl"

var knownLocales = map[string]bool{
	"be-nl": true,
	"nl-nl": true,
	"be-fr": true,
	"de-de": true,
}

// NormalizeLocale maps anything unknown onto the default locale.
func NormalizeLocale(locale string) string {
	if knownLocales[locale] {
		return locale
	}
	return DefaultLocale
}

// Row is one rendered cart line: the item plus its product detail link.
type Row struct {
	domain.CartItem
	URL string
}

// View is the render snapshot the panel and toggle control consume. It is
// recomputed on every cart notification while the panel is open, and on open.
type View struct {
	Open          bool
	Rows          []Row
	Count         int
	BadgeVisible  bool
	FooterVisible bool
}

// ProductURL builds the detail-page link for a cart line. Lines without
// routing slugs get no link; the panel then shows plain text.
func ProductURL(item domain.CartItem, basePath, locale string) string {
	if item.Slug == "" || item.CategorySlug == "" {
		return ""
	}
	url := basePath + "/" + NormalizeLocale(locale) + "/producten/" + item.CategorySlug
	if item.SubcategorySlug != "" {
		url += "/" + item.SubcategorySlug
	}
	return url + "/" + item.Slug + "/"
}

// SubmitURL is the checkout link in the panel footer. It points at the quote
// request page regardless of price availability.
func SubmitURL(basePath, locale string) string {
	return basePath + "/" + NormalizeLocale(locale) + "/offerte-aanvragen/"
}
