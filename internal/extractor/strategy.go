package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names a value extracted from a product page.
type Field string

const (
	FieldTitle          Field = "title"
	FieldPrice          Field = "currentPrice"
	FieldDescription    Field = "description"
	FieldReviewsSummary Field = "reviewsSummary"
	FieldPurchaseCount  Field = "purchaseCount"
)

// Strategy locates one field value. Attr selects an attribute of the first match;
// an empty Attr takes the element's visible text.
type Strategy struct {
	Selector string
	Attr     string
}

// FieldRule is the ordered list of strategies tried for one field.
type FieldRule struct {
	Field      Field
	Strategies []Strategy
}

// BlockSignal marks a page the retailer served instead of product data.
type BlockSignal struct {
	Selector string
	Contains string
}

// DefaultRules are the selector chains for Flipkart product pages, current layout first.
var DefaultRules = []FieldRule{
	{
		Field: FieldTitle,
		Strategies: []Strategy{
			{Selector: "h1 span.B_NuCI"},
			{Selector: "span.VU-ZEz"},
			{Selector: "h1"},
			{Selector: `meta[property="og:title"]`, Attr: "content"},
		},
	},
	{
		Field: FieldPrice,
		Strategies: []Strategy{
			{Selector: "div._30jeq3._16Jk6d"},
			{Selector: "div.Nx9bqj.CxhGGd"},
			{Selector: "div._30jeq3"},
			{Selector: `meta[itemprop="price"]`, Attr: "content"},
		},
	},
	{
		Field: FieldDescription,
		Strategies: []Strategy{
			{Selector: "div._1mXcCf.RmoJUa"},
			{Selector: "div._1AN87F"},
			{Selector: "div._4gvKMe"},
			{Selector: `meta[name="description"]`, Attr: "content"},
		},
	},
	{
		Field: FieldReviewsSummary,
		Strategies: []Strategy{
			{Selector: "span._2_R_DZ"},
			{Selector: "span.Wphh3N"},
		},
	},
	{
		Field: FieldPurchaseCount,
		Strategies: []Strategy{
			{Selector: "div._3UAT2v._16PBlm"},
			{Selector: "div._3UAT2v"},
		},
	},
}

// DefaultBlockSignals are the access-denial and bot-challenge markers checked before extraction.
var DefaultBlockSignals = []BlockSignal{
	{Selector: "h1", Contains: "access denied"},
	{Selector: "title", Contains: "access denied"},
	{Selector: "body", Contains: "are you a human"},
	{Selector: "body", Contains: "verify you are human"},
	{Selector: "body", Contains: "captcha"},
	{Selector: "body", Contains: "unusual traffic"},
	{Selector: "body", Contains: "bot detection"},
	{Selector: "body", Contains: "request blocked"},
}

// resolve returns the first non-empty value produced by the strategies, in order.
func resolve(doc *goquery.Document, strategies []Strategy) (string, bool) {
	for _, st := range strategies {
		sel := doc.Find(st.Selector).First()
		if sel.Length() == 0 {
			continue
		}

		var value string
		if st.Attr != "" {
			value, _ = sel.Attr(st.Attr)
		} else {
			value = sel.Text()
		}

		if value = collapseSpace(value); value != "" {
			return value, true
		}
	}
	return "", false
}

// blockedBy returns the first block signal present in the document.
func blockedBy(doc *goquery.Document, signals []BlockSignal) (BlockSignal, bool) {
	for _, sig := range signals {
		found := false
		doc.Find(sig.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(s.Text()), strings.ToLower(sig.Contains)) {
				found = true
				return false
			}
			return true
		})
		if found {
			return sig, true
		}
	}
	return BlockSignal{}, false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
