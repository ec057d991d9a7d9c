// Package ingest orchestrates the snapshot-to-index runs: discover the
// current USC release or eCFR snapshot, skip when the state store says
// it was already processed, otherwise fetch, run the document pipeline,
// upload the JSONL and nudge the search indexer.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/saxtech/taxingest/fetch"
	"github.com/saxtech/taxingest/legaldoc"
	"github.com/saxtech/taxingest/state"
)

// Fetcher discovers and downloads source snapshots.
type Fetcher interface {
	DiscoverUSCRelease(ctx context.Context) (fetch.Release, error)
	FetchUSCZip(ctx context.Context, rel fetch.Release) ([]byte, error)
	DiscoverECFRVersion(ctx context.Context, title int) (string, error)
	FetchECFRXML(ctx context.Context, date string, title int) ([]byte, error)
	ECFRXMLURL(date string, title int) string
}

// Sink receives the produced JSONL.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
}

// IndexTrigger kicks the downstream search indexer.
type IndexTrigger interface {
	RunIndexer(ctx context.Context, name string) error
}

// StateStore persists last-processed versions across runs.
type StateStore interface {
	Get(ctx context.Context, source string) (string, error)
	Set(ctx context.Context, source, version string) error
	All(ctx context.Context) ([]state.Entry, error)
}

// Options tunes a Service. Title defaults to 26; IndexerName empty
// disables index triggering.
type Options struct {
	Title        int
	IndexerName  string
	ChunkTarget  int
	ChunkOverlap int
	Logger       *slog.Logger
}

// Service wires the collaborators together. Safe for concurrent use;
// per-source runs are single-flight.
type Service struct {
	fetcher Fetcher
	sink    Sink
	trigger IndexTrigger
	store   StateStore
	pipe    *legaldoc.Pipeline
	log     *slog.Logger

	title   int
	indexer string

	uscMu  sync.Mutex
	ecfrMu sync.Mutex
}

// ErrRunning is returned when a run for the same source is in flight.
var ErrRunning = errors.New("ingest run already in progress")

// NewService builds a Service. trigger may be nil when no indexer is
// configured.
func NewService(f Fetcher, s Sink, t IndexTrigger, st StateStore, opts Options) *Service {
	if opts.Title == 0 {
		opts.Title = 26
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		fetcher: f,
		sink:    s,
		trigger: t,
		store:   st,
		pipe: legaldoc.New(legaldoc.Config{
			ChunkTarget:  opts.ChunkTarget,
			ChunkOverlap: opts.ChunkOverlap,
			Logger:       opts.Logger,
		}),
		log:     opts.Logger,
		title:   opts.Title,
		indexer: opts.IndexerName,
	}
}

// Report describes one source run.
type Report struct {
	Source   string          `json:"source"`
	Version  string          `json:"version"`
	UpToDate bool            `json:"up_to_date"`
	BlobKey  string          `json:"blob_key,omitempty"`
	Result   legaldoc.Result `json:"result"`
}

// RunUSC processes the current US Code release point. When the release
// matches the stored state and force is false, the run is a no-op.
func (s *Service) RunUSC(ctx context.Context, force bool) (Report, error) {
	if !s.uscMu.TryLock() {
		return Report{}, ErrRunning
	}
	defer s.uscMu.Unlock()

	rep := Report{Source: "usc"}

	rel, err := s.fetcher.DiscoverUSCRelease(ctx)
	if err != nil {
		return rep, fmt.Errorf("discover usc release: %w", err)
	}
	rep.Version = rel.Version

	last, err := s.store.Get(ctx, state.SourceUSC)
	if err != nil {
		return rep, err
	}
	if last == rel.Version && !force {
		s.log.Info("usc up to date", "release", rel.Version)
		rep.UpToDate = true
		return rep, nil
	}

	zipData, err := s.fetcher.FetchUSCZip(ctx, rel)
	if err != nil {
		return rep, fmt.Errorf("fetch usc zip: %w", err)
	}
	xmlData, err := fetch.XMLFromZip(zipData)
	if err != nil {
		return rep, fmt.Errorf("usc release %s: %w", rel.Version, err)
	}

	res, recs, err := s.pipe.RunUSC(bytes.NewReader(xmlData), legaldoc.BuildParams{
		TitleNumber: fmt.Sprintf("%d", s.title),
		Version:     rel.Version,
		SourceURL:   rel.URL,
	})
	if err != nil {
		return rep, fmt.Errorf("process usc xml: %w", err)
	}
	rep.Result = res

	rep.BlobKey = fmt.Sprintf("USC/usc%d_%s.jsonl", s.title, rel.Version)
	if err := s.publish(ctx, rep.BlobKey, recs); err != nil {
		return rep, err
	}
	if err := s.store.Set(ctx, state.SourceUSC, rel.Version); err != nil {
		return rep, err
	}
	s.triggerIndexer(ctx)
	return rep, nil
}

// RunCFR processes the latest eCFR snapshot of the title.
func (s *Service) RunCFR(ctx context.Context, force bool) (Report, error) {
	if !s.ecfrMu.TryLock() {
		return Report{}, ErrRunning
	}
	defer s.ecfrMu.Unlock()

	rep := Report{Source: "cfr"}

	date, err := s.fetcher.DiscoverECFRVersion(ctx, s.title)
	if err != nil {
		return rep, fmt.Errorf("discover ecfr version: %w", err)
	}
	rep.Version = date

	last, err := s.store.Get(ctx, state.SourceECFR)
	if err != nil {
		return rep, err
	}
	if last == date && !force {
		s.log.Info("ecfr up to date", "date", date)
		rep.UpToDate = true
		return rep, nil
	}

	xmlData, err := s.fetcher.FetchECFRXML(ctx, date, s.title)
	if err != nil {
		return rep, fmt.Errorf("fetch ecfr xml: %w", err)
	}

	res, recs, err := s.pipe.RunCFR(bytes.NewReader(xmlData), legaldoc.BuildParams{
		TitleNumber: fmt.Sprintf("%d", s.title),
		Version:     date,
		SourceURL:   s.fetcher.ECFRXMLURL(date, s.title),
	})
	if err != nil {
		return rep, fmt.Errorf("process ecfr xml: %w", err)
	}
	rep.Result = res

	rep.BlobKey = fmt.Sprintf("CFR/cfr%d_%s.jsonl", s.title, date)
	if err := s.publish(ctx, rep.BlobKey, recs); err != nil {
		return rep, err
	}
	if err := s.store.Set(ctx, state.SourceECFR, date); err != nil {
		return rep, err
	}
	s.triggerIndexer(ctx)
	return rep, nil
}

// RunAll runs both sources. One source failing does not stop the
// other; the errors are joined.
func (s *Service) RunAll(ctx context.Context, force bool) ([]Report, error) {
	var reports []Report
	var errs []error

	usc, err := s.RunUSC(ctx, force)
	if err != nil {
		s.log.Error("usc run failed", "error", err)
		errs = append(errs, fmt.Errorf("usc: %w", err))
	}
	reports = append(reports, usc)

	cfr, err := s.RunCFR(ctx, force)
	if err != nil {
		s.log.Error("cfr run failed", "error", err)
		errs = append(errs, fmt.Errorf("cfr: %w", err))
	}
	reports = append(reports, cfr)

	return reports, errors.Join(errs...)
}

// Status returns the recorded source versions.
func (s *Service) Status(ctx context.Context) ([]state.Entry, error) {
	return s.store.All(ctx)
}

func (s *Service) publish(ctx context.Context, key string, recs []legaldoc.ChunkRecord) error {
	var buf bytes.Buffer
	if err := legaldoc.WriteJSONL(&buf, recs); err != nil {
		return err
	}
	if err := s.sink.Put(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Info("jsonl uploaded", "key", key, "bytes", buf.Len(), "records", len(recs))
	return nil
}

// triggerIndexer is advisory: the indexer also polls on its own
// schedule, so a trigger failure is logged and swallowed.
func (s *Service) triggerIndexer(ctx context.Context) {
	if s.trigger == nil || s.indexer == "" {
		return
	}
	if err := s.trigger.RunIndexer(ctx, s.indexer); err != nil {
		s.log.Warn("indexer trigger failed", "indexer", s.indexer, "error", err)
		return
	}
	s.log.Info("indexer triggered", "indexer", s.indexer)
}
