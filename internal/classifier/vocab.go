package classifier

// VocabularyVersion identifies the keyword tables below. Bump when a table
// changes: classification precedence depends on these sets.
const VocabularyVersion = "2025.1"

// Vocabulary holds the header keyword sets the classifier trusts over raw
// value sniffing. Injectable for testing and localization.
type Vocabulary struct {
	Date       []string
	Category   []string
	Percentage []string
	Currency   []string
	Quantity   []string
}

// DefaultVocabulary returns the built-in English keyword tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Date: []string{
			"date", "day", "week", "month", "quarter", "year", "period",
			"time", "fiscal",
		},
		Category: []string{
			"name", "type", "category", "region", "status", "project",
			"client", "customer", "vendor", "supplier", "product", "segment",
			"department", "team", "channel", "country", "city", "label",
		},
		Percentage: []string{
			"percent", "percentage", "pct", "rate", "ratio", "margin",
			"share", "%",
		},
		Currency: []string{
			"revenue", "sales", "cost", "price", "amount", "profit", "income",
			"expense", "budget", "spend", "value", "fee", "salary", "total",
		},
		Quantity: []string{
			"count", "quantity", "qty", "units", "number", "orders", "items",
			"visits", "clicks", "users", "sessions", "views", "downloads",
		},
	}
}
