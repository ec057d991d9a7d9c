package legaldoc

import (
	"regexp"
	"sort"
	"strings"
)

// Heading shapes seen in GPO-published title PDFs, in priority order:
// "§ 501 — Exemption...", "Sec. 501 — Exemption...", "501 - Exemption...".
// The bare-number form requires a capitalized title to avoid matching
// enumerated lists.
var pdfHeadingRes = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^\s*§\s*(\d+[A-Za-z]*(?:\.\d+)?)\s*[.—–-]?\s*([^\n]+)`),
	regexp.MustCompile(`(?mi)^\s*(?:Sec\.|Section)\s*(\d+[A-Za-z]*(?:\.\d+)?)\s*[.—–-]?\s*([^\n]+)`),
	regexp.MustCompile(`(?m)^\s*(\d+[A-Za-z]*(?:\.\d+)?)\s*[.—–-]\s*([A-Z][^\n]+)`),
}

// headingDedupeWindow: matches starting within this many characters of
// an accepted match are the same heading caught by two patterns.
const headingDedupeWindow = 10

// maxSectionPages caps the page-number list per section.
const maxSectionPages = 5

type pdfHeading struct {
	pos   int // match start offset
	end   int // match end offset; section content starts here
	id    string
	title string
}

// findPDFHeadings collects heading matches from all patterns, ordered
// by offset, with near-duplicates (within headingDedupeWindow of an
// accepted match) removed, keeping the first.
func findPDFHeadings(text string) []pdfHeading {
	var all []pdfHeading
	for _, re := range pdfHeadingRes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			all = append(all, pdfHeading{
				pos:   m[0],
				end:   m[1],
				id:    strings.TrimSpace(text[m[2]:m[3]]),
				title: strings.TrimSpace(text[m[4]:m[5]]),
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].pos < all[j].pos })

	var unique []pdfHeading
	lastPos := -1
	for _, h := range all {
		if lastPos < 0 || h.pos > lastPos+headingDedupeWindow {
			unique = append(unique, h)
			lastPos = h.pos
		}
	}
	return unique
}

// ParsePDFSections locates sections in flat, newline-normalized PDF
// text. Each accepted heading's span runs from the end of its match to
// the start of the next accepted heading (or the document end). Page
// numbers are recovered by probing each page's raw text for the first
// 40 characters of "<id> <title>" (lower-cased), capped at 5 pages.
//
// Headings with an empty id, title or span are skipped.
func ParsePDFSections(text string, pages map[int]string) []PDFSection {
	headings := findPDFHeadings(text)

	pageNums := make([]int, 0, len(pages))
	for n := range pages {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	var sections []PDFSection
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].pos
		}
		content := strings.TrimSpace(text[h.end:end])
		if h.id == "" || h.title == "" || content == "" {
			continue
		}
		sections = append(sections, PDFSection{
			RawSection: RawSection{ID: h.id, Heading: h.title, Body: content},
			Pages:      locatePages(h.id, h.title, pageNums, pages),
		})
	}
	return sections
}

// locatePages finds which pages a section heading appears on.
func locatePages(id, title string, order []int, pages map[int]string) []int {
	probe := strings.ToLower(id + " " + truncateRunes(title, 60))
	probe = truncateRunes(probe, 40)
	if probe == "" {
		return nil
	}

	var hits []int
	for _, n := range order {
		if strings.Contains(strings.ToLower(pages[n]), probe) {
			hits = append(hits, n)
			if len(hits) == maxSectionPages {
				break
			}
		}
	}
	return hits
}
