package legaldoc

import (
	"fmt"
	"strings"
	"time"
)

const (
	// extractSlice is how many leading runes of a section feed keyword
	// extraction and complexity scoring. Full-section scoring is both
	// slow on megabyte sections and dominated by boilerplate; the head
	// of a section carries its vocabulary.
	extractSlice = 2000

	// summaryLen is the summary length in runes, before the ellipsis.
	summaryLen = 300
)

// BuildID returns the stable record id for a chunk:
// "{usc|cfr}:{title}:{sectionID}:{chunkIndex}". Re-running the same
// snapshot reproduces the same ids, so downstream upserts are
// idempotent.
func BuildID(docType DocType, titleNumber, sectionID string, idx int) string {
	return fmt.Sprintf("%s:%s:%s:%d", strings.ToLower(string(docType)), titleNumber, sectionID, idx)
}

// BuildRecords turns one located section into its chunk records.
// Returns nil when the section body normalizes to empty; callers count
// those as skipped.
//
// Section-level metadata (summary, keywords, references, complexity,
// hierarchy) is computed once and repeated on every chunk of the
// section, so each record is self-contained for the index.
func BuildRecords(sec RawSection, pages []int, p BuildParams) []ChunkRecord {
	var content string
	if p.ParagraphChunks {
		content = NormalizePDFText(sec.Body)
	} else {
		content = Normalize(sec.Body)
	}
	if content == "" {
		return nil
	}

	target := p.ChunkTarget
	if target <= 0 {
		target = DefaultChunkTarget
	}
	overlap := p.ChunkOverlap
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}

	var chunks []string
	if p.ParagraphChunks {
		chunks = ChunkParagraphs(content, target, overlap)
	} else {
		chunks = ChunkText(content, target, overlap)
	}
	if len(chunks) == 0 {
		chunks = []string{content}
	}

	head := truncateRunes(content, extractSlice)
	summary := truncateRunes(content, summaryLen)
	if len([]rune(content)) > summaryLen {
		summary += "..."
	}

	keywords := Keywords(head, DefaultKeywordLimit)
	if keywords == nil {
		keywords = []string{}
	}
	refs := ExtractReferences(content)
	complexity := ComplexityScore(head)

	level := strings.Count(sec.ID, ".") + 1
	var parent *string
	if i := strings.Index(sec.ID, "."); i > 0 {
		pfx := sec.ID[:i]
		parent = &pfx
	}

	if pages == nil {
		pages = []int{}
	}
	title := sec.Heading
	if title == "" {
		title = "Section " + sec.ID
	}
	indexed := time.Now().UTC().Format(time.RFC3339)

	records := make([]ChunkRecord, 0, len(chunks))
	for idx, chunk := range chunks {
		records = append(records, ChunkRecord{
			ID:           BuildID(p.DocType, p.TitleNumber, sec.ID, idx),
			DocType:      p.DocType,
			TitleNumber:  p.TitleNumber,
			SectionID:    sec.ID,
			SectionTitle: title,
			ChunkIndex:   idx,

			Content:  chunk,
			Summary:  summary,
			Keywords: keywords,

			InternalReferences: refs.Internal,
			PublicLaws:         refs.PublicLaws,
			USCReferences:      refs.USC,
			CFRReferences:      refs.CFR,
			FormsMentioned:     refs.Forms,

			PageNumbers:     pages,
			ContentLength:   len([]rune(chunk)),
			ComplexityScore: complexity,
			SubsectionLevel: level,
			ParentSection:   parent,

			SourceURL:   p.SourceURL,
			Version:     p.Version,
			IndexedDate: indexed,
		})
	}
	return records
}
