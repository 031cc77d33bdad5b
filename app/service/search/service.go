package search

import (
	"biosearch/app/client/biosamples"
	"biosearch/app/config"
	"biosearch/app/graph"
	"biosearch/app/graph/query"
	"biosearch/app/graph/result"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/do"
	"github.com/samber/oops"
)

var ErrStaleResponse = errors.New("search superseded by a newer one")

// Backend executes a query document. *biosamples.Client implements it.
type Backend interface {
	Search(ctx context.Context, doc graph.Document, page, size int) (*result.Response, error)
}

type Result struct {
	Seq   uint64         `json:"seq"`
	Query graph.Document `json:"query"`
	Rows  []result.Row   `json:"rows"`
	Page  result.Page    `json:"page"`
}

type Service struct {
	backend    Backend
	reconciler result.Reconciler
	pageSize   int

	sequencer *Sequencer
	metrics   *Metrics
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		do.MustInvoke[*biosamples.Client](di),
		result.Reconciler{SamplesURL: cfg.Server.SamplesURL},
		cfg.Backend.PageSize,
	), nil
}

func NewService(backend Backend, reconciler result.Reconciler, pageSize int) *Service {
	return &Service{
		backend:    backend,
		reconciler: reconciler,
		pageSize:   pageSize,
		sequencer:  NewSequencer(),
		metrics:    NewMetrics(),
	}
}

func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Search runs one search for the session. If a newer search of the same session
// starts before this one publishes, it returns ErrStaleResponse and no rows.
func (s *Service) Search(ctx context.Context, sessionID string, in query.Input, page int) (*Result, error) {
	if err := in.Validate(); err != nil {
		s.metrics.outcome(outcomeInvalid)
		return nil, oops.In("search").
			Code("invalid_query").
			With("session", sessionID, "relationship", in.Relationship).
			Wrap(err)
	}

	doc := query.Build(in)

	seq, ctx, release := s.sequencer.Next(ctx, sessionID)
	defer release()

	log := slog.With("session", sessionID, "seq", seq)
	log.Debug("Graph search started",
		"nodes", len(doc.Nodes),
		"links", len(doc.Links),
		"match_all", in.Empty(),
	)

	start := time.Now()
	resp, err := s.backend.Search(ctx, doc, page, s.pageSize)
	s.metrics.latency.Observe(time.Since(start).Seconds())

	if !s.sequencer.IsLatest(sessionID, seq) {
		return nil, s.stale(log, seq)
	}

	if err != nil {
		s.metrics.outcome(classify(err))

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, oops.In("search").With("session", sessionID, "seq", seq).Wrapf(err, "graph search")
	}

	rows, err := s.reconciler.Reconcile(resp)
	if err != nil {
		s.metrics.outcome(classify(err))
		return nil, oops.In("search").With("session", sessionID, "seq", seq).Wrapf(err, "reconcile")
	}

	if !s.sequencer.IsLatest(sessionID, seq) {
		return nil, s.stale(log, seq)
	}

	if len(rows) == 0 {
		s.metrics.outcome(outcomeEmpty)
	} else {
		s.metrics.outcome(outcomeOK)
	}
	s.metrics.rows.Observe(float64(len(rows)))

	log.Info("Graph search finished",
		"rows", len(rows),
		"total", resp.Page.Total,
		"duration", time.Since(start),
	)

	return &Result{
		Seq:   seq,
		Query: doc,
		Rows:  rows,
		Page:  resp.Page,
	}, nil
}

func (s *Service) stale(log *slog.Logger, seq uint64) error {
	s.metrics.outcome(outcomeStale)
	log.Debug("Discarding superseded graph search")

	return oops.In("search").With("seq", seq).Wrap(ErrStaleResponse)
}

func classify(err error) string {
	var transportErr *biosamples.TransportError
	var danglingErr *result.DanglingReferenceError

	switch {
	case errors.As(err, &transportErr):
		return outcomeTransport
	case errors.As(err, &danglingErr):
		return outcomeDangling
	case errors.Is(err, result.ErrMalformedResponse):
		return outcomeMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeTransport
	}
}
