// Package legaldoc turns US Code and CFR snapshot documents into
// bounded-size, addressable chunk records for a search index.
//
// Sources:
//   - USC  — GPO bulk XML (uscode.house.gov release points)
//   - CFR  — eCFR / GPO bulk XML snapshots
//   - PDF  — fallback path for titles only published as PDF
//
// The pipeline is a pure transformation: parsed document in, chunk
// records out. Fetching, storage and index triggering live in the
// fetch, blobstore and searchidx packages.
package legaldoc

// DocType identifies the source corpus of a record.
type DocType string

const (
	DocTypeUSC DocType = "USC"
	DocTypeCFR DocType = "CFR"
)

// RawSection is a located section before normalization and chunking.
// It is transient: locators produce it, the builder consumes it.
type RawSection struct {
	ID      string // source-assigned identifier, e.g. "501" or "1.401-1"
	Heading string // human title; may be empty
	Body    string // concatenated raw text; empty sections are dropped
}

// PDFSection is a RawSection located in flat PDF text, with the page
// numbers the section was found on (best-effort, capped at 5).
type PDFSection struct {
	RawSection
	Pages []int
}

// ChunkRecord is one line of the JSONL output: a single chunk of a
// section plus section-level derived metadata. Field names follow the
// downstream index schema.
type ChunkRecord struct {
	ID           string  `json:"id"`
	DocType      DocType `json:"doc_type"`
	TitleNumber  string  `json:"title_number"`
	SectionID    string  `json:"section_id"`
	SectionTitle string  `json:"section_title"`
	ChunkIndex   int     `json:"chunk_index"`

	Content  string   `json:"content"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`

	InternalReferences []string `json:"internal_references"`
	PublicLaws         []string `json:"public_laws"`
	USCReferences      []string `json:"usc_references"`
	CFRReferences      []string `json:"cfr_references"`
	FormsMentioned     []string `json:"forms_mentioned"`

	PageNumbers     []int   `json:"page_numbers"`
	ContentLength   int     `json:"content_length"`
	ComplexityScore int     `json:"complexity_score"`
	SubsectionLevel int     `json:"subsection_level"`
	ParentSection   *string `json:"parent_section"`

	SourceURL   string `json:"source_url"`
	Version     string `json:"version"`
	IndexedDate string `json:"indexed_date"`
	IsDeleted   bool   `json:"isDeleted"`
}

// BuildParams carries the provenance scalars shared by every record of
// a run, plus the chunking knobs.
type BuildParams struct {
	DocType     DocType
	TitleNumber string
	Version     string // snapshot/release identifier, e.g. "119-36" or "2025-09-19"
	SourceURL   string

	ChunkTarget  int // 0 → DefaultChunkTarget
	ChunkOverlap int // <0 → DefaultChunkOverlap

	// ParagraphChunks selects the paragraph-accumulating chunker and the
	// newline-preserving normalizer (PDF path).
	ParagraphChunks bool
}

// Result reports aggregate counts for one pipeline run.
type Result struct {
	SectionsProcessed int `json:"sections_processed"`
	SectionsSkipped   int `json:"sections_skipped"`
	ChunksWritten     int `json:"chunks_written"`
}
