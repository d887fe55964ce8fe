package classifier

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// Classifier infers the semantic role of a column from its header
// vocabulary and a sample of its values. Classification is pure: identical
// header and rows always yield an identical profile.
type Classifier struct {
	vocab        *Vocabulary
	sampleSize   int
	numericRatio float64
	rules        []classificationRule
}

// classificationRule is one entry of the ordered rule table. The first rule
// that matches wins; reordering is a breaking change.
type classificationRule struct {
	name  string
	apply func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool)
}

// New creates a Classifier with the default vocabulary.
func New(cfg *config.ClassifierConfig) *Classifier {
	return NewWithVocabulary(cfg, DefaultVocabulary())
}

// NewWithVocabulary creates a Classifier with an injected vocabulary,
// used by tests and localized deployments.
func NewWithVocabulary(cfg *config.ClassifierConfig, vocab *Vocabulary) *Classifier {
	c := &Classifier{
		vocab:        vocab,
		sampleSize:   cfg.SampleSize,
		numericRatio: cfg.NumericRatio,
	}
	c.rules = c.buildRules()
	return c
}

// Classify infers the profile of one column. Header-name signal is trusted
// over raw-value sniffing; the value-based rules at the bottom of the table
// handle unconventional headers.
func (c *Classifier) Classify(header string, rows []models.Row) models.ColumnProfile {
	sample := c.sampleValues(header, rows)
	for _, rule := range c.rules {
		if profile, ok := rule.apply(header, sample, rows); ok {
			return profile
		}
	}
	return models.ColumnProfile{Header: header, Type: models.ColumnMixed, Category: models.CategoryLabel}
}

// buildRules assembles the ordered rule table.
func (c *Classifier) buildRules() []classificationRule {
	return []classificationRule{
		{name: "date_vocabulary", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if headerMatches(header, c.vocab.Date) {
				return profile(header, models.ColumnDate, models.CategoryLabel), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "date_values", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if len(sample) > 0 && allMatch(sample, looksLikeDate) {
				return profile(header, models.ColumnDate, models.CategoryLabel), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "category_vocabulary", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if headerMatches(header, c.vocab.Category) {
				return profile(header, models.ColumnCategory, models.CategoryLabel), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "percentage_vocabulary", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if headerMatches(header, c.vocab.Percentage) && len(sample) > 0 && allMatch(sample, isNumericValue) {
				return profile(header, models.ColumnPercentage, models.CategoryNumeric), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "currency_vocabulary", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if headerMatches(header, c.vocab.Currency) && len(sample) > 0 && allMatch(sample, isNumericValue) {
				return profile(header, models.ColumnCurrency, models.CategoryNumeric), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "quantity_vocabulary", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if headerMatches(header, c.vocab.Quantity) && len(sample) > 0 && allMatch(sample, isNumericValue) {
				return profile(header, models.ColumnQuantity, models.CategoryNumeric), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "numeric_sample", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if len(sample) > 0 && ratioMatching(sample, isNumericValue) >= c.numericRatio {
				return profile(header, models.ColumnNumber, models.CategoryNumeric), true
			}
			return models.ColumnProfile{}, false
		}},
		{name: "text_sample", apply: func(header string, sample []string, rows []models.Row) (models.ColumnProfile, bool) {
			if len(sample) == 0 || ratioMatching(sample, isNotNumeric) < c.numericRatio {
				return models.ColumnProfile{}, false
			}
			unique := uniqueValueCount(header, rows)
			limit := math.Min(0.5*float64(len(rows)), 30)
			if float64(unique) <= limit {
				return profile(header, models.ColumnCategory, models.CategoryLabel), true
			}
			return profile(header, models.ColumnText, models.CategoryLabel), true
		}},
	}
}

// RuleNames exposes the evaluation order for precedence tests.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, rule := range c.rules {
		names[i] = rule.name
	}
	return names
}

// sampleValues collects up to sampleSize non-empty values from the column.
func (c *Classifier) sampleValues(header string, rows []models.Row) []string {
	sample := make([]string, 0, c.sampleSize)
	for _, row := range rows {
		value := strings.TrimSpace(row[header])
		if value == "" {
			continue
		}
		sample = append(sample, value)
		if len(sample) == c.sampleSize {
			break
		}
	}
	return sample
}

func profile(header string, t models.ColumnType, cat models.ColumnRole) models.ColumnProfile {
	return models.ColumnProfile{Header: header, Type: t, Category: cat}
}

// headerMatches reports whether the lowercased header contains any keyword.
func headerMatches(header string, keywords []string) bool {
	h := strings.ToLower(header)
	for _, keyword := range keywords {
		if strings.Contains(h, keyword) {
			return true
		}
	}
	return false
}

func allMatch(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func ratioMatching(values []string, pred func(string) bool) float64 {
	if len(values) == 0 {
		return 0
	}
	matched := 0
	for _, v := range values {
		if pred(v) {
			matched++
		}
	}
	return float64(matched) / float64(len(values))
}

func uniqueValueCount(header string, rows []models.Row) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		value := strings.TrimSpace(row[header])
		if value == "" {
			continue
		}
		seen[value] = struct{}{}
	}
	return len(seen)
}

// currencyStripper removes symbols, thousands separators and percent signs
// before numeric parsing.
var currencyStripper = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "", "%", "", " ", "",
)

// ParseNumeric parses a cell as a number after stripping currency symbols,
// thousands separators and percent signs. Returns false for blanks and
// non-numeric text.
func ParseNumeric(value string) (float64, bool) {
	cleaned := currencyStripper.Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0, false
	}
	// Accounting notation for negatives
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func isNumericValue(value string) bool {
	_, ok := ParseNumeric(value)
	return ok
}

func isNotNumeric(value string) bool {
	return !isNumericValue(value)
}

// dateLayouts are the explicit formats tried before the looser month and
// quarter checks.
var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006", "02/01/2006",
	"2006-01-02 15:04:05", "02-Jan-2006", "2 Jan 2006", "Jan 2, 2006",
	"January 2, 2006", "2006-01", "Jan-06", "Jan 2006", "January 2006",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// looksLikeDate reports whether a cell parses as an actual date, a month
// name, or a quarter marker.
func looksLikeDate(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	lower := strings.ToLower(v)
	for _, month := range monthNames {
		if lower == month || strings.HasPrefix(lower, month+" ") || strings.HasPrefix(lower, month+"-") {
			return true
		}
	}
	// Quarter markers: Q1 .. Q4, optionally with a year
	if len(lower) >= 2 && lower[0] == 'q' && lower[1] >= '1' && lower[1] <= '4' {
		rest := strings.TrimSpace(lower[2:])
		return rest == "" || isYear(rest)
	}
	return false
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return strings.HasPrefix(s, "19") || strings.HasPrefix(s, "20")
}
