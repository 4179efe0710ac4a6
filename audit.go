package gbinews

import "strings"

// FailedEnrichments returns the IDs of articles whose enrichment is
// missing or incomplete, in input order without duplicates.
//
// An enrichment is incomplete when the primary company or its one-liner is
// empty or "Unknown", either summary is empty, or the keyword or company
// list has no non-blank entry.
func FailedEnrichments(articles []*Article) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, a := range articles {
		if a == nil || a.ID == "" || seen[a.ID] {
			continue
		}
		if enrichmentComplete(&a.Enrichment) {
			continue
		}
		seen[a.ID] = true
		ids = append(ids, a.ID)
	}

	return ids
}

func enrichmentComplete(e *Enrichment) bool {
	switch {
	case isUnknown(e.PrimaryCompany), isUnknown(e.CompanyOneLiner):
		return false
	case isBlank(e.SummaryZhTW), isBlank(e.SummaryEN):
		return false
	case !hasEntry(e.Keywords), !hasEntry(e.CompaniesRanked):
		return false
	}
	return true
}

func isUnknown(s string) bool {
	return isBlank(s) || strings.EqualFold(strings.TrimSpace(s), UnknownCompany)
}

// isBlank also treats a stringified empty JSON value as blank.
func isBlank(s string) bool {
	switch strings.TrimSpace(strings.ReplaceAll(s, "\ufeff", "")) {
	case "", "[]", "{}", "[ ]", "{ }", `[""]`, "['']":
		return true
	}
	return false
}

func hasEntry(list []string) bool {
	for _, s := range list {
		if strings.Trim(s, ` '"[]{}`) != "" {
			return true
		}
	}
	return false
}
