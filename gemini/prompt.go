package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// SystemInstruction frames the model as a news analyst returning JSON.
const SystemInstruction = "You are a precise news analyst. Extract companies and produce summaries. " +
	"Return ONLY valid JSON matching the given schema."

// BuildConfig returns the GenerateContentConfig for enrichment calls.
func BuildConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemInstruction}},
		},
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   enrichmentSchema(),
	}
}

func enrichmentSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	strList := &genai.Schema{Type: genai.TypeArray, Items: str}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"companies_ranked": strList,
			"keywords": {
				Type:     genai.TypeArray,
				Items:    str,
				MinItems: genai.Ptr[int64](3),
				MaxItems: genai.Ptr[int64](5),
			},
			"primary_company":   str,
			"company_one_liner": str,
			"summary_zh_tw":     str,
			"summary_en":        str,
		},
		PropertyOrdering: fieldOrder,
		Required:         fieldOrder,
	}
}

var fieldOrder = []string{
	"companies_ranked",
	"keywords",
	"primary_company",
	"company_one_liner",
	"summary_zh_tw",
	"summary_en",
}

// BuildUserPrompt builds the user prompt for a single article.
func BuildUserPrompt(headline, publishDate, body string) string {
	var sb strings.Builder
	sb.WriteString("You will read a Taiwanese tech/business news article and output JSON.\n\n")
	fmt.Fprintf(&sb, "Article Title: %s\n", headline)
	fmt.Fprintf(&sb, "Publish Date: %s\n\n", publishDate)
	fmt.Fprintf(&sb, "Full Text (Taiwanese Mandarin):\n%s\n\n", body)
	sb.WriteString("Instructions:\n")
	sb.WriteString("1) List `companies_ranked` (most→least important) using official English or Traditional Chinese names\n")
	sb.WriteString("2) `keywords`: 3–5 concise, high-signal keywords (nouns/proper terms). Use Traditional Chinese if the article is Chinese; otherwise English.\n\n")
	sb.WriteString("3) Select `primary_company` (must be one of companies_ranked; if none, use 'Unknown')\n")
	sb.WriteString("4) `company_one_liner`: one sentence describing primary_company's core business, what it does, and its products/services in Traditional Chinese\n")
	sb.WriteString("5) `summary_zh_tw`: detailed Traditional Chinese summary (Taiwanese style)\n")
	sb.WriteString("6) `summary_en`: detailed English summary\n\n")
	sb.WriteString("Constraints:\n")
	sb.WriteString("- Output strictly JSON only, no markdown, no commentary.\n")
	sb.WriteString("- Keep names canonical; avoid duplicates or tickers unless necessary.\n")
	return sb.String()
}
