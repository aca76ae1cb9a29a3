package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/recommend.txt
	recommendTemplate string
	//go:embed prompts/search.txt
	searchTemplate string
)

// DefaultLocale is the language the short "Reason" field is requested in.
const DefaultLocale = "Slovak"

// PromptBuilder renders the instruction templates around caller data. The
// data blobs are embedded verbatim; they are never parsed or validated here.
type PromptBuilder struct {
	Locale string
}

// NewPromptBuilder returns a builder for the given locale, falling back to DefaultLocale.
func NewPromptBuilder(locale string) PromptBuilder {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	return PromptBuilder{Locale: strings.TrimSpace(locale)}
}

// Recommend builds the transaction-driven recommendation prompt.
func (b PromptBuilder) Recommend(transactions, services string) string {
	return strings.NewReplacer(
		"{{LOCALE}}", b.locale(),
		"{{TRANSACTIONS}}", transactions,
		"{{SERVICES}}", services,
	).Replace(recommendTemplate)
}

// Search builds the query-driven search prompt.
func (b PromptBuilder) Search(query, services string) string {
	return strings.NewReplacer(
		"{{LOCALE}}", b.locale(),
		"{{QUERY}}", query,
		"{{SERVICES}}", services,
	).Replace(searchTemplate)
}

func (b PromptBuilder) locale() string {
	if b.Locale == "" {
		return DefaultLocale
	}
	return b.Locale
}
