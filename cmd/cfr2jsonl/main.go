// Command cfr2jsonl converts one eCFR/GPO title XML file to chunked
// JSONL on disk, without touching blob storage or the state database.
// Useful for backfills and for inspecting what a snapshot produces.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/saxtech/taxingest/legaldoc"
)

func main() {
	in := flag.String("in", "", "input CFR title XML file (required)")
	out := flag.String("out", "", "output JSONL file (default stdout)")
	title := flag.String("title", "26", "CFR title number")
	version := flag.String("version", "", "snapshot date, e.g. 2025-08-15 (required)")
	sourceURL := flag.String("source-url", "", "provenance URL recorded on every record")
	target := flag.Int("chunk-target", legaldoc.DefaultChunkTarget, "chunk size in characters")
	overlap := flag.Int("chunk-overlap", legaldoc.DefaultChunkOverlap, "chunk overlap in characters")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *in == "" || *version == "" {
		fmt.Fprintln(os.Stderr, "usage: cfr2jsonl -in title26.xml -version 2025-08-15 [-out out.jsonl]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		slog.Error("open input", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	pipe := legaldoc.New(legaldoc.Config{
		ChunkTarget:  *target,
		ChunkOverlap: *overlap,
		Logger:       logger,
	})
	res, recs, err := pipe.RunCFR(f, legaldoc.BuildParams{
		TitleNumber: *title,
		Version:     *version,
		SourceURL:   *sourceURL,
	})
	if err != nil {
		slog.Error("process xml", "error", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		w, err = os.Create(*out)
		if err != nil {
			slog.Error("create output", "error", err)
			os.Exit(1)
		}
		defer w.Close()
	}
	if err := legaldoc.WriteJSONL(w, recs); err != nil {
		slog.Error("write jsonl", "error", err)
		os.Exit(1)
	}

	slog.Info("done",
		"sections", res.SectionsProcessed,
		"skipped", res.SectionsSkipped,
		"chunks", res.ChunksWritten)
}
