// Package engine runs the full lifecycle pipeline: frame building,
// cycle segmentation, rolling metrics, phase classification, flags,
// segment compression, board snapshot and window aggregation.
//
// Each product's pipeline depends only on that product's own rows, so
// the batch entry point fans out over products with a worker pool and
// merges the per-product partial tables at the end.
package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/board"
	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/internal/cycles"
	"github.com/wonny/sellerpulse/internal/frame"
	"github.com/wonny/sellerpulse/internal/phases"
	"github.com/wonny/sellerpulse/internal/rolling"
	"github.com/wonny/sellerpulse/internal/segments"
	"github.com/wonny/sellerpulse/internal/windows"
)

// ProductKey identifies one product of one shop.
type ProductKey struct {
	ShopID string
	ASIN   string
}

// ProductResult holds the four output tables for a single product.
type ProductResult struct {
	Daily    []contracts.DailyRecord
	Segments []contracts.Segment
	Board    *contracts.BoardRow
	Windows  []contracts.WindowRow
}

// BatchResult is the merge of every product's ProductResult. Row order
// within the tables carries no meaning.
type BatchResult struct {
	Daily    []contracts.DailyRecord
	Segments []contracts.Segment
	Board    []contracts.BoardRow
	Windows  []contracts.WindowRow
}

// Engine is the per-product pipeline. It is stateless between calls
// and safe for concurrent use.
type Engine struct {
	frame       *frame.Builder
	cycles      *cycles.Segmenter
	rolling     *rolling.Computer
	classifier  *phases.Classifier
	annotator   *phases.Annotator
	compressor  *segments.Compressor
	snapshotter *board.Snapshotter
	windows     *windows.Aggregator

	log zerolog.Logger
}

// New creates an engine from one immutable thresholds value.
func New(cfg contracts.Thresholds, log zerolog.Logger) *Engine {
	return &Engine{
		frame:       frame.NewBuilder(log),
		cycles:      cycles.NewSegmenter(cfg, log),
		rolling:     rolling.NewComputer(cfg.RollingWindowDays),
		classifier:  phases.NewClassifier(cfg, log),
		annotator:   phases.NewAnnotator(cfg),
		compressor:  segments.NewCompressor(log),
		snapshotter: board.NewSnapshotter(),
		windows:     windows.NewAggregator(cfg, log),
		log:         log.With().Str("component", "engine").Logger(),
	}
}

// Process runs the pipeline for a single product's raw rows. A product
// with no rows produces an empty result rather than an error; bad data
// never aborts a run.
func (e *Engine) Process(rows []contracts.RawDailyRow) *ProductResult {
	daily := e.frame.Build(rows)
	if len(daily) == 0 {
		return &ProductResult{}
	}

	e.cycles.Assign(daily)
	e.rolling.Apply(daily)
	e.classifier.Label(daily)
	e.annotator.Apply(daily)

	segs := e.compressor.Compress(daily)
	snap := e.snapshotter.Snapshot(daily, segs)
	wins := e.windows.Build(daily, segs)

	return &ProductResult{
		Daily:    daily,
		Segments: segs,
		Board:    snap,
		Windows:  wins,
	}
}

// ProcessAll groups rows by product and fans the pipeline out over a
// bounded worker pool. Workers share nothing; the only synchronization
// is the final fan-in merge.
func (e *Engine) ProcessAll(ctx context.Context, rows []contracts.RawDailyRow, workers int) *BatchResult {
	products := GroupByProduct(rows)
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan []contracts.RawDailyRow)
	results := make(chan *ProductResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for productRows := range jobs {
				results <- e.Process(productRows)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, productRows := range products {
			select {
			case <-ctx.Done():
				e.log.Warn().Msg("context cancelled, stopping product fan-out")
				return
			case jobs <- productRows:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := &BatchResult{}
	processed := 0
	for res := range results {
		processed++
		out.Daily = append(out.Daily, res.Daily...)
		out.Segments = append(out.Segments, res.Segments...)
		if res.Board != nil {
			out.Board = append(out.Board, *res.Board)
		}
		out.Windows = append(out.Windows, res.Windows...)
	}

	e.log.Info().
		Int("products", len(products)).
		Int("processed", processed).
		Int("daily_rows", len(out.Daily)).
		Int("segment_rows", len(out.Segments)).
		Int("window_rows", len(out.Windows)).
		Msg("batch run completed")

	return out
}

// GroupByProduct splits a flat feed into per-product row sets.
func GroupByProduct(rows []contracts.RawDailyRow) map[ProductKey][]contracts.RawDailyRow {
	out := make(map[ProductKey][]contracts.RawDailyRow)
	for _, r := range rows {
		key := ProductKey{ShopID: r.ShopID, ASIN: r.ASIN}
		out[key] = append(out[key], r)
	}
	return out
}
