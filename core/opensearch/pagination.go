package opensearch

import (
	"regexp"
	"strconv"
	"strings"
)

var pageParamPattern = regexp.MustCompile(`([?&])page=\d*`)

// PageContext is the paging state reported in a results feed. NextPage
// and PrevPage are nil when there is no such page.
type PageContext struct {
	CurrentPage  int
	ItemsPerPage int
	TotalResults int
	StartIndex   int
	NextPage     *int
	PrevPage     *int
	LastPage     int
}

// Paginate computes the navigation state. page is the page the client
// asked for, zero when absent, and start the offset used for the search.
func Paginate(rows, start, page, total int) PageContext {
	pc := PageContext{ItemsPerPage: rows, TotalResults: total, CurrentPage: 1, LastPage: 1}

	switch {
	case page > 0:
		pc.CurrentPage = page
		pc.StartIndex = rows*page - rows + 1
	case start > 0 && rows > 0:
		pc.CurrentPage = start/rows + 1
		pc.StartIndex = start + 1
	default:
		pc.StartIndex = 1
	}

	// rows*CurrentPage < total, kept free of overflow on large pages.
	if total > 0 && (rows <= 0 || pc.CurrentPage <= (total-1)/rows) {
		next := pc.CurrentPage + 1
		pc.NextPage = &next
	}
	if pc.CurrentPage > 1 {
		prev := pc.CurrentPage - 1
		pc.PrevPage = &prev
	}
	if rows > 0 {
		if last := (total + rows - 1) / rows; last > 1 {
			pc.LastPage = last
		}
	}
	return pc
}

// BuildNavLink points requestURL at another page. The page parameter is
// replaced in place or appended; a nil page gives an empty href.
func BuildNavLink(requestURL string, page *int, rel string) Link {
	link := Link{Rel: rel, Title: rel, Type: MediaTypeAtom}
	if page == nil {
		return link
	}
	n := strconv.Itoa(*page)

	if pageParamPattern.MatchString(requestURL) {
		replaced := false
		link.Href = pageParamPattern.ReplaceAllStringFunc(requestURL, func(m string) string {
			if replaced {
				return m
			}
			replaced = true
			return m[:1] + "page=" + n
		})
		return link
	}

	switch {
	case !strings.Contains(requestURL, "?"):
		link.Href = requestURL + "?page=" + n
	case strings.HasSuffix(requestURL, "?") || strings.HasSuffix(requestURL, "&"):
		link.Href = requestURL + "page=" + n
	default:
		link.Href = requestURL + "&page=" + n
	}
	return link
}

// NavLinks returns the first, next, prev and last links of a feed.
// Links whose page does not exist are omitted.
func NavLinks(requestURL string, pc PageContext) []Link {
	first, last := 1, pc.LastPage
	candidates := []Link{
		BuildNavLink(requestURL, &first, "first"),
		BuildNavLink(requestURL, pc.NextPage, "next"),
		BuildNavLink(requestURL, pc.PrevPage, "prev"),
		BuildNavLink(requestURL, &last, "last"),
	}
	links := make([]Link, 0, len(candidates))
	for _, l := range candidates {
		if l.Href != "" {
			links = append(links, l)
		}
	}
	return links
}
