package legaldoc

import (
	"fmt"
	"regexp"
	"sort"
)

// References are the citation sets mined from a section's text. Each
// set is deduplicated, sorted for reproducibility, and capped.
type References struct {
	Internal   []string // "501(c)(3)" style in-title section cites, cap 20
	PublicLaws []string // "99-514" from "Pub. L. 99-514", cap 10
	USC        []string // "26 USC 7805", cap 10
	CFR        []string // "26 CFR 1.401-1", cap 10
	Forms      []string // "1040-ES" from "Form 1040-ES", cap 10
}

const (
	internalRefCap = 20
	refCap         = 10
)

var (
	internalRefRe = regexp.MustCompile(`(?i)section\s+(\d+(?:\([a-zA-Z0-9]+\))*)`)
	publicLawRe   = regexp.MustCompile(`(?i)Pub\.\s*L\.\s*(\d+-\d+)`)
	uscRefRe      = regexp.MustCompile(`(?i)(\d+)\s+U\.?S\.?C\.?\s+(\d+)`)
	cfrRefRe      = regexp.MustCompile(`(?i)(\d+)\s+C\.?F\.?R\.?\s+([\d.]+)`)
	formRe        = regexp.MustCompile(`(?i)Form\s+(\d+[A-Z]*(?:-[A-Z]+)?)`)
)

// ExtractReferences mines cross-references from normalized text. Pure:
// degenerate input yields empty sets, never an error.
func ExtractReferences(text string) References {
	var refs References
	refs.Internal = dedupeCap(captureGroup(internalRefRe, text, 1), internalRefCap)
	refs.PublicLaws = dedupeCap(captureGroup(publicLawRe, text, 1), refCap)

	var usc []string
	for _, m := range uscRefRe.FindAllStringSubmatch(text, -1) {
		usc = append(usc, fmt.Sprintf("%s USC %s", m[1], m[2]))
	}
	refs.USC = dedupeCap(usc, refCap)

	var cfr []string
	for _, m := range cfrRefRe.FindAllStringSubmatch(text, -1) {
		cfr = append(cfr, fmt.Sprintf("%s CFR %s", m[1], m[2]))
	}
	refs.CFR = dedupeCap(cfr, refCap)

	refs.Forms = dedupeCap(captureGroup(formRe, text, 1), refCap)
	return refs
}

func captureGroup(re *regexp.Regexp, text string, group int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[group])
	}
	return out
}

// dedupeCap removes duplicates, sorts lexically and truncates to n.
// Sorting makes set order deterministic across runs (the index treats
// these as sets, but stable output keeps snapshots diffable).
func dedupeCap(in []string, n int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
