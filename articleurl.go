package gbinews

import (
	"net/url"
)

// ArticlePath is the path of article pages on the news site.
const ArticlePath = "/tw/article/show.php"

// ArticleIDFromURL returns the article ID carried in the "num" query
// parameter of rawURL, or "" if it is missing or not all digits.
func ArticleIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	num := u.Query().Get("num")
	if !isDigits(num) {
		return ""
	}
	return num
}

// ResolveArticleURL resolves href against base and reports whether it
// points to an article page. The returned URL keeps only the "num" query
// parameter and drops the fragment, so links to the same article compare equal.
func ResolveArticleURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if u.Path != ArticlePath {
		return "", false
	}
	num := u.Query().Get("num")
	if !isDigits(num) {
		return "", false
	}

	normalized := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path,
		RawQuery: url.Values{"num": {num}}.Encode(),
	}
	return normalized.String(), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
