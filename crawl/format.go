package crawl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ShortURL drops the scheme from rawURL and, if the rest is still longer
// than maxLen characters, keeps its tail behind an ellipsis. Article URLs
// differ only in their query, so the tail is what identifies them.
func ShortURL(rawURL string, maxLen int) string {
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if maxLen <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen == 1 {
		return string(runes[n-1:])
	}
	return "…" + string(runes[n-maxLen+1:])
}

// TruncateText shortens text to at most maxLen characters, marking the cut
// with an ellipsis.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen == 1 {
		return string(runes[:1])
	}
	return string(runes[:maxLen-1]) + "…"
}

// FormatSize renders a page size in binary units.
func FormatSize(n int) string {
	units := []string{"B", "KiB", "MiB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", n, units[0])
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

// FormatTokens renders an approximate token count, in thousands from 1000 up.
func FormatTokens(tokens int) string {
	if tokens >= 1000 {
		return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
	}
	return fmt.Sprintf("~%d tokens", tokens)
}
