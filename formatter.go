package gbinews

import "strings"

// FormatArticle formats an article for display.
// Uses the headline if available, falls back to the URL.
func FormatArticle(a *Article) string {
	var b strings.Builder

	header := a.Headline
	if header == "" {
		header = a.URL
	}
	b.WriteString("# ")
	b.WriteString(header)
	b.WriteString("\n")

	writeField(&b, "ID", a.ID)
	writeField(&b, "URL", a.URL)
	writeField(&b, "Date", a.PublishDate)
	writeField(&b, "Companies", strings.Join(a.CompaniesRanked, ", "))
	writeField(&b, "Keywords", strings.Join(a.Keywords, ", "))
	writeField(&b, "Primary", a.PrimaryCompany)
	writeField(&b, "One-liner", a.CompanyOneLiner)

	if a.SummaryZhTW != "" || a.SummaryEN != "" {
		b.WriteString("\n")
		if a.SummaryZhTW != "" {
			b.WriteString(a.SummaryZhTW)
			b.WriteString("\n")
		}
		if a.SummaryEN != "" {
			b.WriteString(a.SummaryEN)
			b.WriteString("\n")
		}
	}

	if a.Body != "" {
		b.WriteString("\n")
		b.WriteString(a.Body)
		b.WriteString("\n")
	}

	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
