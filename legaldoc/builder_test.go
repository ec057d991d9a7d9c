package legaldoc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildID(t *testing.T) {
	tests := []struct {
		docType DocType
		section string
		idx     int
		want    string
	}{
		{DocTypeUSC, "501", 0, "usc:26:501:0"},
		{DocTypeCFR, "1.401-1", 3, "cfr:26:1.401-1:3"},
	}
	for _, tt := range tests {
		if got := BuildID(tt.docType, "26", tt.section, tt.idx); got != tt.want {
			t.Errorf("BuildID = %q, want %q", got, tt.want)
		}
	}
}

func baseParams() BuildParams {
	return BuildParams{
		DocType:     DocTypeUSC,
		TitleNumber: "26",
		Version:     "119-36",
		SourceURL:   "https://uscode.house.gov/download/releasepoints/us/pl/119/36/xml_usc26@119-36.zip",
	}
}

func TestBuildRecords(t *testing.T) {
	sec := RawSection{
		ID:      "501",
		Heading: "Exemption from tax on corporations",
		Body:    "An organization described in subsection (c) shall be exempt. See section 503 and Pub. L. 99-514.",
	}
	recs := BuildRecords(sec, nil, baseParams())
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	r := recs[0]
	if r.ID != "usc:26:501:0" {
		t.Errorf("id = %q", r.ID)
	}
	if r.DocType != DocTypeUSC || r.TitleNumber != "26" || r.SectionID != "501" {
		t.Errorf("provenance fields wrong: %+v", r)
	}
	if r.ChunkIndex != 0 {
		t.Errorf("chunk index = %d", r.ChunkIndex)
	}
	if r.SubsectionLevel != 1 {
		t.Errorf("subsection level = %d, want 1", r.SubsectionLevel)
	}
	if r.ParentSection != nil {
		t.Errorf("parent = %v, want nil", *r.ParentSection)
	}
	if r.ContentLength != len([]rune(r.Content)) {
		t.Errorf("content length = %d", r.ContentLength)
	}
	if len(r.InternalReferences) != 1 || r.InternalReferences[0] != "503" {
		t.Errorf("internal refs = %v", r.InternalReferences)
	}
	if len(r.PublicLaws) != 1 || r.PublicLaws[0] != "99-514" {
		t.Errorf("public laws = %v", r.PublicLaws)
	}
	if r.PageNumbers == nil || len(r.PageNumbers) != 0 {
		t.Errorf("page numbers = %v, want empty non-nil", r.PageNumbers)
	}
	if r.IsDeleted {
		t.Error("new record marked deleted")
	}
	if _, err := time.Parse(time.RFC3339, r.IndexedDate); err != nil {
		t.Errorf("indexed date %q: %v", r.IndexedDate, err)
	}
}

func TestBuildRecordsEmptyBody(t *testing.T) {
	sec := RawSection{ID: "7851", Heading: "Repealed", Body: "   \n  "}
	if recs := BuildRecords(sec, nil, baseParams()); recs != nil {
		t.Fatalf("expected nil for empty body, got %d records", len(recs))
	}
}

func TestBuildRecordsHierarchy(t *testing.T) {
	sec := RawSection{ID: "1.401-1", Heading: "Pension plans", Body: "Some regulation text."}
	p := baseParams()
	p.DocType = DocTypeCFR
	recs := BuildRecords(sec, nil, p)
	if len(recs) != 1 {
		t.Fatal("expected 1 record")
	}
	if recs[0].SubsectionLevel != 2 {
		t.Errorf("level = %d, want 2", recs[0].SubsectionLevel)
	}
	if recs[0].ParentSection == nil || *recs[0].ParentSection != "1" {
		t.Errorf("parent = %v, want 1", recs[0].ParentSection)
	}
}

func TestBuildRecordsTitleFallback(t *testing.T) {
	recs := BuildRecords(RawSection{ID: "61", Body: "Some text."}, nil, baseParams())
	if len(recs) == 0 {
		t.Fatal("no records")
	}
	if recs[0].SectionTitle != "Section 61" {
		t.Errorf("title = %q, want fallback", recs[0].SectionTitle)
	}
}

func TestBuildRecordsSummaryTruncation(t *testing.T) {
	long := strings.Repeat("word ", 200)
	recs := BuildRecords(RawSection{ID: "61", Body: long}, nil, baseParams())
	if len(recs) == 0 {
		t.Fatal("no records")
	}
	sum := recs[0].Summary
	if !strings.HasSuffix(sum, "...") {
		t.Fatalf("summary not truncated: %q", sum)
	}
	if len([]rune(sum)) != summaryLen+3 {
		t.Errorf("summary length = %d", len([]rune(sum)))
	}
}

func TestBuildRecordsMultiChunkSharesMetadata(t *testing.T) {
	body := strings.Repeat("The term applies under section 7805. ", 300)
	p := baseParams()
	p.ChunkTarget = 4000
	p.ChunkOverlap = 400
	recs := BuildRecords(RawSection{ID: "7805", Heading: "Rules", Body: body}, nil, p)
	if len(recs) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(recs))
	}
	for i, r := range recs {
		if r.ChunkIndex != i {
			t.Errorf("record %d chunk index = %d", i, r.ChunkIndex)
		}
		if r.Summary != recs[0].Summary {
			t.Errorf("record %d summary differs", i)
		}
		if r.ComplexityScore != recs[0].ComplexityScore {
			t.Errorf("record %d complexity differs", i)
		}
	}
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestPipelineRunUSC(t *testing.T) {
	xml := `<uscDoc>
  <section num="501">
    <heading>Exemption from tax on corporations</heading>
    <content><p>An organization shall be exempt from taxation under this subtitle.</p></content>
  </section>
  <section num="7851">
    <heading>Applicability of revenue laws</heading>
  </section>
</uscDoc>`

	p := New(Config{})
	res, recs, err := p.RunUSC(strings.NewReader(xml), baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.SectionsProcessed != 2 {
		t.Errorf("processed = %d, want 2", res.SectionsProcessed)
	}
	if res.ChunksWritten != len(recs) {
		t.Errorf("chunks written %d != records %d", res.ChunksWritten, len(recs))
	}
	if recs[0].ID != "usc:26:501:0" {
		t.Errorf("first id = %q", recs[0].ID)
	}
}

func TestPipelineRunUSCSkipsEmpty(t *testing.T) {
	xml := `<uscDoc><section num="1"><heading></heading></section></uscDoc>`
	p := New(Config{})
	res, recs, err := p.RunUSC(strings.NewReader(xml), baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.SectionsSkipped != 1 || res.SectionsProcessed != 0 || len(recs) != 0 {
		t.Errorf("res = %+v, recs = %d", res, len(recs))
	}
}

func TestPipelineRunCFR(t *testing.T) {
	xml := `<CFRDOC>
  <SECTION>
    <SECTNO>§ 1.61-1</SECTNO>
    <SUBJECT>Gross income.</SUBJECT>
    <P>Gross income means all income from whatever source derived.</P>
  </SECTION>
</CFRDOC>`

	p := New(Config{})
	params := baseParams()
	params.DocType = DocTypeCFR
	params.Version = "2025-08-01"
	res, recs, err := p.RunCFR(strings.NewReader(xml), params)
	if err != nil {
		t.Fatal(err)
	}
	if res.SectionsProcessed != 1 || len(recs) != 1 {
		t.Fatalf("res = %+v, recs = %d", res, len(recs))
	}
	if recs[0].ID != "cfr:26:1.61-1:0" {
		t.Errorf("id = %q", recs[0].ID)
	}
	if recs[0].Version != "2025-08-01" {
		t.Errorf("version = %q", recs[0].Version)
	}
}

func TestPipelineRunPDF(t *testing.T) {
	pages := map[int]string{
		1: "§ 61 — Gross income defined\nGross income means all income from whatever source derived.",
		2: "§ 62 — Adjusted gross income defined\nAdjusted gross income means gross income minus deductions.",
	}
	p := New(Config{})
	res, recs, err := p.RunPDF(pages, baseParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.SectionsProcessed != 2 {
		t.Fatalf("processed = %d, want 2; recs %d", res.SectionsProcessed, len(recs))
	}
	for _, r := range recs {
		if r.PageNumbers == nil {
			t.Errorf("record %s has nil page numbers", r.ID)
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	recs := BuildRecords(RawSection{
		ID:      "61",
		Heading: "Gross income defined",
		Body:    "Income from cafés & bars <includes> tips.",
	}, nil, baseParams())

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, recs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(recs) {
		t.Fatalf("expected %d lines, got %d", len(recs), len(lines))
	}
	if !strings.Contains(out, "cafés") {
		t.Error("non-ASCII was escaped")
	}
	if !strings.Contains(out, "<includes>") || !strings.Contains(out, "&") {
		t.Error("HTML characters were escaped")
	}

	var rec ChunkRecord
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line 0 not valid JSON: %v", err)
	}
	if rec.ID != "usc:26:61:0" {
		t.Errorf("round-trip id = %q", rec.ID)
	}
}
