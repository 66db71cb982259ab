package ingest

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"LedgerCast/internal/model"
)

// dateLayouts are tried in order when parsing transaction dates.
// Accounting exports disagree on this more than on anything else.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Normalizer converts raw rows into canonical records: parses date and
// amount, canonicalizes the category label, and applies the sign
// convention. Malformed rows are counted and skipped, never fatal.
type Normalizer struct {
	synonyms map[string]string
	types    map[string]model.CategoryType
	warned   map[string]bool
	skipped  int
}

// NewNormalizer creates a Normalizer. Synonym and type lookup keys are
// matched case-insensitively against canonicalized labels.
func NewNormalizer(synonyms map[string]string, types map[string]model.CategoryType) *Normalizer {
	n := &Normalizer{
		synonyms: make(map[string]string, len(synonyms)),
		types:    make(map[string]model.CategoryType, len(types)),
		warned:   make(map[string]bool),
	}
	for k, v := range synonyms {
		n.synonyms[foldLabel(k)] = foldLabel(v)
	}
	for k, v := range types {
		n.types[foldLabel(k)] = v
	}
	return n
}

// Normalize produces zero or one canonical record from a raw row.
// The second return is false for rows that were rejected and counted.
func (n *Normalizer) Normalize(row RawRow) (model.CanonicalRecord, bool) {
	date, ok := parseDate(row.Date)
	if !ok {
		log.Printf("[WARN] skipping row: unparseable date %q", row.Date)
		n.skipped++
		return model.CanonicalRecord{}, false
	}

	amount, err := parseAmount(row.Amount)
	if err != nil {
		log.Printf("[WARN] skipping row: unparseable amount %q: %v", row.Amount, err)
		n.skipped++
		return model.CanonicalRecord{}, false
	}

	category := foldLabel(row.Category)
	if category == "" {
		log.Printf("[WARN] skipping row: empty category (date %s)", row.Date)
		n.skipped++
		return model.CanonicalRecord{}, false
	}
	if canonical, ok := n.synonyms[category]; ok {
		category = canonical
	}

	switch n.types[category] {
	case model.CategoryExpense:
		amount = amount.Abs().Neg()
	case model.CategoryIncome:
		amount = amount.Abs()
	default:
		if !n.warned[category] {
			log.Printf("[WARN] no category type configured for %q, keeping amount sign as-is", category)
			n.warned[category] = true
		}
	}

	return model.CanonicalRecord{Date: date, Category: category, Amount: amount}, true
}

// Skipped returns the number of rows rejected so far in this run.
func (n *Normalizer) Skipped() int { return n.skipped }

// foldLabel trims and case-folds a category label and collapses internal
// whitespace runs, so "  Food  Delivery " and "food delivery" agree.
func foldLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // thousands separators

	// Accounting exports write negatives as (123.45).
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
