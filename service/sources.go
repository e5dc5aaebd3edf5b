package service

import (
	"net/url"
	"regexp"
	"strings"

	"supportrag-backend/models"
)

const sourceSnippetLimit = 500

// officialDomains is the allow-list for citation URLs. Anything else is
// omitted, never fabricated.
var officialDomains = map[string]struct{}{
	"sberbank.ru":        {},
	"www.sberbank.ru":    {},
	"online.sberbank.ru": {},
	"sberbank.com":       {},
	"www.sberbank.com":   {},
}

// topicURLTable maps question/content keywords to curated official pages
var topicURLTable = []struct {
	keyword string
	url     string
}{
	{"карт", "https://www.sberbank.ru/ru/person/bank_cards"},
	{"перевод", "https://www.sberbank.ru/ru/person/paymentsandtransfers"},
	{"вклад", "https://www.sberbank.ru/ru/person/contributions"},
	{"кредит", "https://www.sberbank.ru/ru/person/credits"},
	{"ипотек", "https://www.sberbank.ru/ru/person/credits/homenew"},
	{"приложени", "https://online.sberbank.ru"},
	{"сбербанк онлайн", "https://online.sberbank.ru"},
	{"тариф", "https://www.sberbank.ru/ru/person/help/tariffs"},
}

var urlPattern = regexp.MustCompile(`https?://[^\s()<>"«»]+`)

// provenanceLabel derives a human-readable source label from document type
func provenanceLabel(docType string) string {
	switch docType {
	case "faq":
		return "База знаний: вопросы и ответы"
	case "tariff":
		return "Тарифы и условия"
	case "manual":
		return "Инструкция"
	case "web":
		return "Официальный сайт"
	default:
		return "Документ базы знаний"
	}
}

// FormatSources turns the context window into the final citation list:
// bounded snippets, provenance labels and allow-listed URLs only.
func FormatSources(window ContextWindow) []models.SourceCitation {
	sources := make([]models.SourceCitation, 0, len(window.Docs))
	for _, doc := range window.Docs {
		sources = append(sources, models.SourceCitation{
			Snippet:   truncateSnippet(doc.Text, sourceSnippetLimit),
			Source:    doc.Source,
			Label:     provenanceLabel(doc.DocType),
			Relevance: doc.Relevancy(),
			URL:       resolveCitationURL(doc),
		})
	}
	return sources
}

// resolveCitationURL picks a citation link for a chunk: explicit metadata
// first, then URLs embedded in the content, then the curated keyword table.
// Every candidate is validated against the official-domain allow-list.
func resolveCitationURL(doc models.DocChunk) string {
	if doc.Metadata != nil {
		if meta, ok := doc.Metadata["url"].(string); ok && isOfficialURL(meta) {
			return meta
		}
	}

	for _, embedded := range urlPattern.FindAllString(doc.Text, -1) {
		embedded = strings.TrimRight(embedded, ".,;:")
		if isOfficialURL(embedded) {
			return embedded
		}
	}

	folded := strings.ToLower(doc.Text)
	for _, entry := range topicURLTable {
		if strings.Contains(folded, entry.keyword) {
			return entry.url
		}
	}

	return ""
}

func isOfficialURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return false
	}
	_, ok := officialDomains[strings.ToLower(parsed.Hostname())]
	return ok
}

// containsOfficialLink reports whether text carries an allow-listed URL
func containsOfficialLink(text string) bool {
	for _, embedded := range urlPattern.FindAllString(text, -1) {
		if isOfficialURL(strings.TrimRight(embedded, ".,;:")) {
			return true
		}
	}
	return false
}

func truncateSnippet(text string, limit int) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= limit {
		return trimmed
	}
	return string(runes[:limit])
}
