package legaldoc

import (
	"io"
	"strings"
)

// USCSections locates sections in a US Code bulk-XML document: every
// element whose local name is "section" (any case). The section id
// comes from the element's "num" attribute, the heading from the first
// descendant "heading" element, and the body from the direct text of
// every descendant, joined with single spaces.
//
// Elements without a usable id are dropped silently; that is a
// structural validity check, not a run failure. A document that does
// not parse at all is a run failure.
func USCSections(r io.Reader) ([]RawSection, error) {
	root, err := parseXMLTree(r)
	if err != nil {
		return nil, err
	}

	var sections []RawSection
	root.walk(func(n *xmlNode) bool {
		if !strings.EqualFold(n.name, "section") {
			return true
		}
		sec := uscExtract(n)
		if sec.ID != "" {
			sections = append(sections, sec)
		}
		// Keep descending: nested section elements (rare, but present in
		// some note blocks) are located independently.
		return true
	})
	return sections, nil
}

func uscExtract(n *xmlNode) RawSection {
	sec := RawSection{ID: strings.TrimSpace(n.attr("num"))}

	if h := n.findFirst("heading"); h != nil {
		sec.Heading = h.directText()
	}

	var parts []string
	n.walk(func(d *xmlNode) bool {
		if t := d.directText(); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	sec.Body = strings.Join(parts, " ")
	return sec
}
