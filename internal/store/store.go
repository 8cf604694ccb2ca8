package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"motk/internal/entity"
	"motk/internal/folders"
	"motk/internal/logging"
	"motk/internal/metrics"
	"motk/internal/services"
	"motk/internal/sheet"
)

// Terminal outcomes of the per-operation state machine. The value doubles as
// the metrics outcome label and the structured log outcome attr.
const (
	outcomeCommitted          = "committed"
	outcomeConflicted         = "conflicted"
	outcomeFailed             = "failed"
	outcomeRejectedValidation = "rejected_validation"
	outcomeNotFound           = "not_found"
)

// Store orchestrates entity operations over the backing tabular store. It
// keeps no state between calls; every operation re-fetches the sheet it
// touches, so instances are safe for concurrent use.
type Store struct {
	client    sheet.Client
	folders   folders.Provisioner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	relations *Registry
	now       func() time.Time
	suffix    func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithProvisioner wires the storage-folder collaborator.
func WithProvisioner(p folders.Provisioner) Option {
	return func(s *Store) {
		if p != nil {
			s.folders = p
		}
	}
}

// WithLogger attaches the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches the metrics collectors. Nil records nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the wall clock used for generated IDs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDSuffix overrides the random ID suffix source.
func WithIDSuffix(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.suffix = fn
		}
	}
}

// New builds a Store around the backing client.
func New(client sheet.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		folders:   folders.Disabled{},
		logger:    logging.NewNop(),
		relations: defaultRegistry(),
		now:       time.Now,
		suffix:    func() string { return uuid.NewString()[:6] },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "store")
	return s
}

// Initialize creates any entity sheets that do not exist yet. Safe to run
// repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	for _, schema := range entity.Schemas() {
		start := time.Now()
		err := s.client.EnsureSheet(ctx, schema.Sheet, schema.Headers())
		s.metrics.ObserveSheetRequest("ensure_sheet", time.Since(start))
		if err != nil {
			return fmt.Errorf("ensure sheet %s: %w", schema.Sheet, err)
		}
	}
	s.logger.Info("entity sheets ready", logging.Int("sheets", len(entity.Schemas())))
	return nil
}

// located is one entity row found in a snapshot: the decoded field set plus
// the raw cells the decode saw. The raw cells become the believed values of
// later compare-and-swap updates.
type located struct {
	fields   entity.Fields
	headers  []string
	raw      []string
	rowIndex int
}

func (l *located) rawCell(field string) string {
	for i, header := range l.headers {
		if header == field {
			if i < len(l.raw) {
				return l.raw[i]
			}
			return ""
		}
	}
	return ""
}

func (s *Store) snapshot(ctx context.Context, table string) (*sheet.SheetData, error) {
	start := time.Now()
	data, err := s.client.GetSheetData(ctx, table)
	s.metrics.ObserveSheetRequest("get_sheet_data", time.Since(start))
	return data, err
}

// lookup finds the row whose ID column equals id in a fresh snapshot.
func (s *Store) lookup(ctx context.Context, schema entity.Schema, operation, id string) (*located, error) {
	data, err := s.snapshot(ctx, schema.Sheet)
	if err != nil {
		return nil, services.Wrap(services.ErrBacking, string(schema.Type), operation, "fetch sheet", err)
	}
	if len(data.Values) == 0 {
		return nil, notFound(schema, operation, id)
	}
	headers := data.Values[0]
	idPos := -1
	for i, header := range headers {
		if header == schema.IDField() {
			idPos = i
			break
		}
	}
	if idPos == -1 {
		return nil, services.Wrap(services.ErrBacking, string(schema.Type), operation,
			fmt.Sprintf("sheet %s lacks ID column %s", schema.Sheet, schema.IDField()), nil)
	}
	for i := 1; i < len(data.Values); i++ {
		row := data.Values[i]
		if idPos >= len(row) || row[idPos] != id {
			continue
		}
		fields, err := entity.FromRow(schema, headers, row)
		if err != nil {
			return nil, err
		}
		return &located{fields: fields, headers: headers, raw: row, rowIndex: i}, nil
	}
	return nil, notFound(schema, operation, id)
}

func notFound(schema entity.Schema, operation, id string) error {
	return services.Wrap(services.ErrNotFound, string(schema.Type), operation,
		fmt.Sprintf("entity %s not found", id), nil)
}

func (s *Store) generateID(entityType entity.Type) string {
	return fmt.Sprintf("%s_%d_%s", entityType, s.now().Unix(), s.suffix())
}

func missingRequired(schema entity.Schema, fields entity.Fields) []string {
	var missing []string
	for _, name := range schema.Required() {
		value, ok := fields[name]
		if !ok || value == nil {
			missing = append(missing, name)
			continue
		}
		if text, isString := value.(string); isString && strings.TrimSpace(text) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func unknownFields(schema entity.Schema, fields entity.Fields) []string {
	var unknown []string
	for name := range fields {
		if _, ok := schema.Descriptor(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// annotate stamps the operation context picked up by downstream log lines.
func annotate(ctx context.Context, entityType entity.Type, id, operation string) context.Context {
	return services.WithOperation(services.WithEntity(ctx, string(entityType), id), operation)
}

// finish records the terminal outcome of one operation in the metrics and
// the structured log.
func (s *Store) finish(ctx context.Context, entityType entity.Type, operation, outcome string, err error) {
	s.metrics.RecordOperation(string(entityType), operation, outcome)
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldOutcome, outcome))
	switch {
	case err == nil:
		logger.Info("operation finished")
	case outcome == outcomeConflicted:
		logger.Warn("operation conflicted", logging.Error(err))
	case outcome == outcomeNotFound, outcome == outcomeRejectedValidation:
		logger.Info("operation rejected", logging.Error(err))
	default:
		logger.Error("operation failed", logging.Error(err))
	}
}

func outcomeForFailure(failure services.Failure) string {
	switch failure {
	case services.FailureNone:
		return outcomeCommitted
	case services.FailureValidation:
		return outcomeRejectedValidation
	case services.FailureNotFound:
		return outcomeNotFound
	case services.FailureConflict:
		return outcomeConflicted
	default:
		return outcomeFailed
	}
}

func outcomeForError(err error) string {
	return outcomeForFailure(services.Classify(err))
}

// badType reports an operation on an entity type no schema exists for.
func (s *Store) badType(ctx context.Context, entityType entity.Type, operation string, err error) OperationResult {
	wrapped := services.Wrap(services.ErrValidation, string(entityType), operation, err.Error(), nil)
	s.finish(annotate(ctx, entityType, "", operation), entityType, operation, outcomeRejectedValidation, wrapped)
	return failed(wrapped)
}
