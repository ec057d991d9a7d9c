package legaldoc

import (
	"io"
	"regexp"
	"strings"
)

var sectionSignRe = regexp.MustCompile(`^§\s*`)

// CFRSections locates sections in an eCFR/GPO bulk-XML document. Two
// passes over the tree, mirroring how GPO titles are actually tagged:
// first every element locally named "SECTION", then any other element
// that has a direct SECTNO child (older titles wrap sections in plain
// DIV elements).
//
// The section id is the first descendant SECTNO's text with a leading
// "§" stripped; the heading is the first non-empty SUBJECT or HEAD; the
// body is the direct text of descendant P elements only, joined with
// single spaces. Elements without a SECTNO id are dropped silently.
func CFRSections(r io.Reader) ([]RawSection, error) {
	root, err := parseXMLTree(r)
	if err != nil {
		return nil, err
	}

	var sections []RawSection
	emit := func(n *xmlNode) {
		sec := cfrExtract(n)
		if sec.ID != "" {
			sections = append(sections, sec)
		}
	}

	root.walk(func(n *xmlNode) bool {
		if strings.EqualFold(n.name, "SECTION") {
			emit(n)
		}
		return true
	})
	root.walk(func(n *xmlNode) bool {
		if strings.EqualFold(n.name, "SECTION") {
			return true
		}
		for _, c := range n.children {
			if strings.EqualFold(c.name, "SECTNO") {
				emit(n)
				break
			}
		}
		return true
	})
	return sections, nil
}

func cfrExtract(n *xmlNode) RawSection {
	var sec RawSection

	if sn := n.findFirst("SECTNO"); sn != nil {
		sec.ID = strings.TrimSpace(sectionSignRe.ReplaceAllString(sn.directText(), ""))
	}
	if sec.ID == "" {
		return RawSection{}
	}

	n.walk(func(d *xmlNode) bool {
		if sec.Heading != "" {
			return false
		}
		name := strings.ToUpper(d.name)
		if name == "SUBJECT" || name == "HEAD" {
			sec.Heading = d.directText()
		}
		return true
	})

	var paras []string
	n.walk(func(d *xmlNode) bool {
		if strings.EqualFold(d.name, "P") {
			if t := d.directText(); t != "" {
				paras = append(paras, t)
			}
		}
		return true
	})
	sec.Body = strings.Join(paras, " ")
	return sec
}
