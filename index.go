package gbinews

// Pager describes the pagination block of an index page.
// Zero means the link is absent.
type Pager struct {
	NextPage   int
	LastPage   int
	PagesInNav []int
}

// IndexParser reads article links and pagination from index pages.
type IndexParser interface {
	// ParseArticleLinks returns normalized article URLs in document order,
	// resolving relative links against baseURL.
	ParseArticleLinks(html string, baseURL string) ([]string, error)

	// ParsePager reads the page's pagination block.
	ParsePager(html string) (*Pager, error)
}
