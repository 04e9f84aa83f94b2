package fintab

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fintab/builder"
	"fintab/config"
	"fintab/csvout"
	"fintab/filter"
	"fintab/loader"
	"fintab/model"
	"fintab/score"
	"fintab/tables"
)

// Extractor provides a fluent interface for extracting financial tables.
// Each configuration method returns a new Extractor instance, making it safe
// to fork a partially configured chain.
type Extractor struct {
	// Source: either a file to load or pre-supplied pages.
	filename string
	docName  string
	pages    []*model.Page

	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// Result holds the outcome of one extraction run.
type Result struct {
	// Document is the document name used for output files.
	Document string

	// Tables are all tables that survived the quality filter, in page
	// order, with layout scores assigned.
	Tables []*model.StructuredTable

	// Selected is the per-page top subset of Tables.
	Selected []*model.StructuredTable

	// FullFiles and SelectedFiles are the written CSV paths, when an
	// output root was configured.
	FullFiles     []string
	SelectedFiles []string

	Diagnostics Diagnostics
}

// Diagnostics reports what happened to candidates along the pipeline.
type Diagnostics struct {
	PagesProcessed int
	Candidates     int
	AfterDedupe    int

	// Dropped counts builder and quality-filter rejections by reason.
	Dropped map[string]int

	// WriteFailures counts CSV files that could not be written. Failures
	// skip the file and never abort the run.
	WriteFailures int
}

// pageOutcome is the per-page result collected by the worker pool.
type pageOutcome struct {
	candidates int
	deduped    int
	dropped    map[string]int
	tables     []*model.StructuredTable
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		docName:  e.docName,
		pages:    e.pages,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// Pages restricts extraction to the given 1-indexed pages. Multiple calls
// are cumulative.
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange restricts extraction to an inclusive 1-indexed page range.
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// OutputRoot enables CSV output under the given directory. Each document
// gets its own subdirectory with full/ and selected/ sets.
func (e *Extractor) OutputRoot(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.outputRoot = dir
	return newExt
}

// Format sets the output encoding. CSV is the only supported format;
// anything else fails at extraction time.
func (e *Extractor) Format(f Format) *Extractor {
	newExt := e.clone()
	newExt.options.format = f
	return newExt
}

// TopPerPage sets how many tables per page are promoted to the selected set.
func (e *Extractor) TopPerPage(k int) *Extractor {
	newExt := e.clone()
	newExt.options.topPerPage = k
	return newExt
}

// Workers bounds concurrent page processing. Zero means one worker per CPU.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// WithLogger attaches a logger. The default discards all output.
func (e *Extractor) WithLogger(logger *zap.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// WithConfig replaces the whole pipeline configuration. The config is not
// copied; callers must not mutate it afterwards.
func (e *Extractor) WithConfig(cfg *config.GlobalConfig) *Extractor {
	newExt := e.clone()
	newExt.options.cfg = cfg
	if cfg.TopPerPage > 0 {
		newExt.options.topPerPage = cfg.TopPerPage
	}
	if cfg.Workers > 0 {
		newExt.options.workers = cfg.Workers
	}
	return newExt
}

// ExtractTables runs the full pipeline: locate candidates on every page,
// deduplicate, rebuild, filter, score, select, and optionally write CSVs.
// This is a terminal operation.
func (e *Extractor) ExtractTables(ctx context.Context) (*Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if errs := e.options.cfg.Validate(); len(errs) > 0 {
		return nil, errors.Errorf("invalid configuration: %v", errs)
	}
	if e.options.format != FormatCSV {
		return nil, errors.Errorf("unsupported output format %s", e.options.format)
	}

	log := e.options.logger.Sugar()

	pages, err := e.resolvePages()
	if err != nil {
		return nil, err
	}

	strategies, err := e.buildStrategies()
	if err != nil {
		return nil, err
	}

	bld := builder.NewWithConfig(e.options.cfg.Builder)
	qf := filter.NewWithConfig(e.options.cfg.Filter)
	scorer := score.NewWithConfig(e.options.cfg.Score)

	workers := e.options.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]pageOutcome, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.processPage(page, strategies, bld, qf, scorer, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Document:    e.docName,
		Diagnostics: Diagnostics{Dropped: make(map[string]int)},
	}
	result.Diagnostics.PagesProcessed = len(pages)
	for _, o := range outcomes {
		result.Diagnostics.Candidates += o.candidates
		result.Diagnostics.AfterDedupe += o.deduped
		for reason, n := range o.dropped {
			result.Diagnostics.Dropped[reason] += n
		}
		result.Tables = append(result.Tables, o.tables...)
	}

	result.Selected = score.SelectTopPerPage(result.Tables, e.options.topPerPage)

	if e.options.outputRoot != "" {
		if err := e.writeOutput(result, log); err != nil {
			return nil, err
		}
	}

	log.Infow("extraction finished",
		"document", e.docName,
		"pages", result.Diagnostics.PagesProcessed,
		"candidates", result.Diagnostics.Candidates,
		"tables", len(result.Tables),
		"selected", len(result.Selected))
	return result, nil
}

// resolvePages loads the document unless pages were supplied directly.
func (e *Extractor) resolvePages() ([]*model.Page, error) {
	if e.pages != nil {
		return e.pages, nil
	}
	if e.filename == "" {
		return nil, errors.New("no input: need a filename or pages")
	}

	var selection map[int]bool
	if len(e.options.pages) > 0 {
		selection = make(map[int]bool, len(e.options.pages))
		for _, p := range e.options.pages {
			selection[p] = true
		}
	}
	return loader.New().Load(e.filename, selection)
}

// buildStrategies instantiates and configures a fresh locator set.
func (e *Extractor) buildStrategies() ([]tables.Strategy, error) {
	strategies := tables.DefaultStrategies()
	for _, s := range strategies {
		if err := s.Configure(e.options.cfg.Tables); err != nil {
			return nil, errors.Wrapf(err, "configuring %s strategy", s.Name())
		}
	}
	return strategies, nil
}

// processPage runs locate, dedupe, build, filter, and score for one page.
func (e *Extractor) processPage(page *model.Page, strategies []tables.Strategy, bld *builder.Builder, qf *filter.Filter, scorer *score.Scorer, log *zap.SugaredLogger) pageOutcome {
	out := pageOutcome{dropped: make(map[string]int)}

	var candidates []*model.Candidate
	for _, s := range strategies {
		found, err := s.Locate(page)
		if err != nil {
			log.Warnw("strategy failed", "page", page.Number, "strategy", s.Name(), "error", err)
			continue
		}
		for _, c := range found {
			c.Order = len(candidates)
			candidates = append(candidates, c)
		}
	}
	out.candidates = len(candidates)

	unique := tables.Deduplicate(candidates)
	out.deduped = len(unique)

	for _, c := range unique {
		table, reason, err := bld.Build(c)
		if err != nil {
			log.Warnw("build failed", "page", page.Number, "strategy", c.Strategy, "error", err)
			continue
		}
		if table == nil {
			out.dropped[reason]++
			log.Debugw("candidate dropped", "page", page.Number, "strategy", c.Strategy, "reason", reason)
			continue
		}
		table.Title = bld.DetectTitle(page, c.BBox.Top())

		verdict := qf.Evaluate(table)
		if !verdict.Keep {
			out.dropped[verdict.Reason]++
			log.Debugw("table dropped", "page", page.Number, "reason", verdict.Reason)
			continue
		}

		table.Score = scorer.Score(table)
		table.Index = len(out.tables) + 1
		out.tables = append(out.tables, table)
	}

	log.Debugw("page processed",
		"page", page.Number,
		"candidates", out.candidates,
		"unique", out.deduped,
		"kept", len(out.tables))
	return out
}

// writeOutput writes every kept table to the full set and copies the
// selected ones. Individual write failures are logged and skipped.
func (e *Extractor) writeOutput(result *Result, log *zap.SugaredLogger) error {
	writer, err := csvout.NewWriter(e.options.outputRoot, e.docName)
	if err != nil {
		return errors.Wrap(err, "preparing output directories")
	}

	fullPaths := make(map[*model.StructuredTable]string, len(result.Tables))
	for _, t := range result.Tables {
		path, err := writer.WriteFull(t)
		if err != nil {
			result.Diagnostics.WriteFailures++
			log.Warnw("csv write failed", "page", t.Page, "index", t.Index, "error", err)
			continue
		}
		fullPaths[t] = path
		result.FullFiles = append(result.FullFiles, path)
	}

	for _, t := range result.Selected {
		full, ok := fullPaths[t]
		if !ok {
			continue
		}
		path, err := writer.CopySelected(full)
		if err != nil {
			result.Diagnostics.WriteFailures++
			log.Warnw("csv copy failed", "page", t.Page, "index", t.Index, "error", err)
			continue
		}
		result.SelectedFiles = append(result.SelectedFiles, path)
	}
	return nil
}
