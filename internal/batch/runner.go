package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fjacquet/bank-import/internal/categorizer"
	"fjacquet/bank-import/internal/common"
	"fjacquet/bank-import/internal/fileutils"
	"fjacquet/bank-import/internal/institution"
	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/metrics"
	"fjacquet/bank-import/internal/models"
	"fjacquet/bank-import/internal/normalizer"
	"fjacquet/bank-import/internal/parsererror"
)

// Store is the persistence surface the runner needs.
type Store interface {
	Reset() error
	Init(ctx context.Context) (*models.CategoryIndex, error)
	EnsureAccount(ctx context.Context, spec models.AccountSpec) (int64, bool, error)
	ImportBatch(ctx context.Context, candidates []models.Candidate, index *models.CategoryIndex) (int, error)
}

// Institutions resolves institution keys.
type Institutions interface {
	Lookup(key string) (*institution.Institution, error)
}

// Options controls a run.
type Options struct {
	// Reset deletes the existing database before the run.
	Reset bool
}

// FileResult is the outcome of one pair.
type FileResult struct {
	Path           string
	Key            string
	Inserted       int
	Rows           normalizer.Stats
	Classification categorizer.Stats
	Err            error
}

// Failed reports whether the file was rejected.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// Summary aggregates a run.
type Summary struct {
	RunID    string
	Files    []FileResult
	Total    int
	Duration time.Duration
}

// Failures counts the files that failed.
func (s Summary) Failures() int {
	n := 0
	for _, f := range s.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Runner executes import runs.
type Runner struct {
	store        Store
	institutions Institutions
	recorder     *metrics.Recorder
	logger       logging.Logger
	now          func() time.Time
}

// NewRunner wires a runner. recorder may be nil.
func NewRunner(store Store, institutions Institutions, recorder *metrics.Recorder, logger logging.Logger) *Runner {
	return &Runner{
		store:        store,
		institutions: institutions,
		recorder:     recorder,
		logger:       logger,
		now:          time.Now,
	}
}

// Run imports every pair. The returned error is non-nil only for fatal
// failures (store reset or initialization); per-file errors are reported
// in the summary.
func (r *Runner) Run(ctx context.Context, pairs []Pair, opts Options) (Summary, error) {
	start := r.now()
	summary := Summary{RunID: uuid.NewString()}
	log := r.logger.WithField(logging.FieldRunID, summary.RunID)

	if len(pairs) == 0 {
		return summary, ErrUsage
	}

	if opts.Reset {
		if err := r.store.Reset(); err != nil {
			return summary, fmt.Errorf("failed to reset store: %w", err)
		}
	} else {
		log.Info("Keeping existing database; rows will be added to previous imports")
	}

	index, err := r.store.Init(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to initialize store: %w", err)
	}

	log.Info("Starting import", logging.F(logging.FieldCount, len(pairs)))
	for _, p := range pairs {
		res := r.processFile(ctx, p, index, log)
		summary.Files = append(summary.Files, res)
		summary.Total += res.Inserted
	}

	summary.Duration = r.now().Sub(start)
	r.recorder.RunFinished(summary.Duration, r.now())
	log.Info("Import finished",
		logging.F(logging.FieldCount, summary.Total),
		logging.F("files", len(summary.Files)),
		logging.F("failed_files", summary.Failures()),
		logging.F(logging.FieldDuration, summary.Duration.Milliseconds()))
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, p Pair, index *models.CategoryIndex, runLog logging.Logger) FileResult {
	res := FileResult{Path: p.Path, Key: p.Key}
	log := runLog.WithFields(
		logging.F(logging.FieldFile, p.Path),
		logging.F(logging.FieldInstitution, p.Key))

	inserted, err := r.importFile(ctx, p, index, &res, log)
	if err != nil {
		res.Err = err
		r.recorder.File(metrics.StatusFailed)
		log.WithError(err).Error("File import failed",
			logging.F(logging.FieldStatus, metrics.StatusFailed))
		return res
	}

	res.Inserted = inserted
	r.recorder.File(metrics.StatusImported)
	r.recorder.Inserted(p.Key, inserted)
	log.Info("File imported",
		logging.F(logging.FieldStatus, metrics.StatusImported),
		logging.F(logging.FieldCount, inserted),
		logging.F("skipped", res.Rows.Skipped()))
	return res
}

func (r *Runner) importFile(ctx context.Context, p Pair, index *models.CategoryIndex, res *FileResult, log logging.Logger) (int, error) {
	if !fileutils.FileExists(p.Path) {
		return 0, &parsererror.ValidationError{FilePath: p.Path, Reason: "file does not exist"}
	}

	inst, err := r.institutions.Lookup(p.Key)
	if err != nil {
		return 0, err
	}

	accountID, _, err := r.store.EnsureAccount(ctx, inst.Account)
	if err != nil {
		return 0, err
	}
	log = log.WithField(logging.FieldAccount, inst.Account.Name)

	cat := categorizer.New(inst.CategoryMappings, inst.Rules, index, log)
	norm := normalizer.New(inst, accountID, cat.Mapping, index)

	reader, err := common.OpenCSV(p.Path, inst.CSV, log)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	var candidates []models.Candidate
	for rec, err := range reader.Records() {
		if err != nil {
			return 0, err
		}
		result := norm.Normalize(rec)
		res.Rows.Add(result.Outcome)
		r.recorder.Row(p.Key, result.Outcome.String())
		if result.Outcome != normalizer.Accepted {
			log.Debug("Skipping row",
				logging.F(logging.FieldLine, rec.Line),
				logging.F(logging.FieldOutcome, result.Outcome.String()),
				logging.F(logging.FieldReason, result.Reason))
			continue
		}
		cand := result.Candidate
		cat.Classify(&cand)
		candidates = append(candidates, cand)
	}
	res.Classification = cat.Stats()
	res.Classification.LogSummary(log)

	if len(candidates) == 0 {
		log.Warn("No importable rows in file", logging.F("rows", res.Rows.Total()))
		return 0, nil
	}

	n, err := r.store.ImportBatch(ctx, candidates, index)
	if err != nil {
		var storageErr *parsererror.StorageError
		if !errors.As(err, &storageErr) {
			err = &parsererror.StorageError{Op: "import batch", Err: err}
		}
		return 0, err
	}
	return n, nil
}
