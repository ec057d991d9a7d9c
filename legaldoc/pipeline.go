package legaldoc

import (
	"io"
	"log/slog"
)

// Config tunes a Pipeline. Zero values pick the defaults.
type Config struct {
	ChunkTarget  int
	ChunkOverlap int
	Logger       *slog.Logger
}

// Pipeline runs locate → normalize → chunk → build over one document.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	target  int
	overlap int
	log     *slog.Logger
}

// New returns a Pipeline with cfg applied over the defaults.
func New(cfg Config) *Pipeline {
	p := &Pipeline{
		target:  cfg.ChunkTarget,
		overlap: cfg.ChunkOverlap,
		log:     cfg.Logger,
	}
	if p.target <= 0 {
		p.target = DefaultChunkTarget
	}
	if p.overlap < 0 {
		p.overlap = DefaultChunkOverlap
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// RunUSC processes a US Code bulk-XML document.
func (p *Pipeline) RunUSC(r io.Reader, params BuildParams) (Result, []ChunkRecord, error) {
	sections, err := USCSections(r)
	if err != nil {
		return Result{}, nil, err
	}
	params.DocType = DocTypeUSC
	params.ParagraphChunks = false
	res, recs := p.build(plain(sections), params)
	return res, recs, nil
}

// RunCFR processes an eCFR/GPO bulk-XML document.
func (p *Pipeline) RunCFR(r io.Reader, params BuildParams) (Result, []ChunkRecord, error) {
	sections, err := CFRSections(r)
	if err != nil {
		return Result{}, nil, err
	}
	params.DocType = DocTypeCFR
	params.ParagraphChunks = false
	res, recs := p.build(plain(sections), params)
	return res, recs, nil
}

// RunPDF processes per-page PDF text (as produced by ExtractPDFPages).
// The paragraph-preserving chunker is used so page-derived line breaks
// survive into chunk boundaries.
func (p *Pipeline) RunPDF(pages map[int]string, params BuildParams) (Result, []ChunkRecord, error) {
	text := NormalizePDFText(JoinPages(pages))
	sections := ParsePDFSections(text, pages)
	params.ParagraphChunks = true
	res, recs := p.build(sections, params)
	return res, recs, nil
}

// build runs the per-section builder over every located section.
// Sections whose body normalizes to empty are counted as skipped, not
// failed: a title snapshot always carries repealed and reserved
// sections.
func (p *Pipeline) build(sections []PDFSection, params BuildParams) (Result, []ChunkRecord) {
	params.ChunkTarget = p.target
	params.ChunkOverlap = p.overlap

	var res Result
	var records []ChunkRecord
	for _, sec := range sections {
		recs := BuildRecords(sec.RawSection, sec.Pages, params)
		if len(recs) == 0 {
			res.SectionsSkipped++
			p.log.Debug("section skipped", "section_id", sec.ID, "doc_type", string(params.DocType))
			continue
		}
		res.SectionsProcessed++
		res.ChunksWritten += len(recs)
		records = append(records, recs...)
	}
	p.log.Info("document processed",
		"doc_type", string(params.DocType),
		"title", params.TitleNumber,
		"sections", res.SectionsProcessed,
		"skipped", res.SectionsSkipped,
		"chunks", res.ChunksWritten)
	return res, records
}

func plain(secs []RawSection) []PDFSection {
	out := make([]PDFSection, len(secs))
	for i, s := range secs {
		out[i] = PDFSection{RawSection: s}
	}
	return out
}
