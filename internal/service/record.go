package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fdms/internal/model"
	"fdms/internal/repository"
)

const (
	DefaultLimit = 100
)

// ListParams carries the raw query of a list request.
type ListParams struct {
	Skip    int
	Limit   int
	Search  string
	Filters map[string]string
}

// RecordService implements the CRUD, lookup and stats use cases of every catalog entity.
type RecordService interface {
	// List returns a page of e filtered by params, never nil.
	List(ctx context.Context, e *model.Entity, params ListParams) ([]model.Record, error)

	// Get returns one record or a NotFound error.
	Get(ctx context.Context, e *model.Entity, id int64) (model.Record, error)

	// ListBy returns every record whose related key equals raw.
	ListBy(ctx context.Context, e *model.Entity, r model.Related, raw string) ([]model.Record, error)

	// Distinct returns the values behind an enumeration route.
	Distinct(ctx context.Context, e *model.Entity, en model.Enum) ([]string, error)

	// Stats returns the aggregate payload of e.
	Stats(ctx context.Context, e *model.Entity) (map[string]any, error)

	// Create validates, fills defaults and generated codes, checks parents and uniqueness,
	// and stores the record atomically.
	Create(ctx context.Context, e *model.Entity, p model.Patch) (model.Record, error)

	// Update applies the fields present in p.
	Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) (model.Record, error)

	// Delete removes (or soft-deletes) the record and returns the confirmation payload.
	Delete(ctx context.Context, e *model.Entity, id int64) (map[string]any, error)
}

// Option configures a RecordService.
type Option func(*recordService)

// WithClock replaces the time source used for defaults and generated codes.
func WithClock(now func() time.Time) Option {
	return func(s *recordService) { s.now = now }
}

type recordService struct {
	repo repository.RecordRepository
	now  func() time.Time
}

// NewRecordService constructs a RecordService over repo.
func NewRecordService(repo repository.RecordRepository, opts ...Option) RecordService {
	s := &recordService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *recordService) List(ctx context.Context, e *model.Entity, params ListParams) ([]model.Record, error) {
	q := repository.ListQuery{Skip: params.Skip, Limit: params.Limit}
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if search := strings.TrimSpace(params.Search); search != "" && len(e.Search) > 0 {
		q.Conditions = append(q.Conditions, repository.Condition{
			Columns: e.Search,
			Op:      repository.Contains,
			Value:   search,
		})
	}
	for _, f := range e.Filters {
		cond, ok, err := filterCondition(f, params.Filters[f.Param])
		if err != nil {
			return nil, err
		}
		if ok {
			q.Conditions = append(q.Conditions, cond)
		}
	}

	out, err := s.repo.List(ctx, e, q)
	if err != nil {
		return nil, translate(e, err)
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

// filterCondition resolves one filter parameter. ok is false when the filter is absent.
func filterCondition(f model.Filter, raw string) (repository.Condition, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || f.IsSentinel(raw) {
		return repository.Condition{}, false, nil
	}
	cond := repository.Condition{Columns: []string{f.Column}, Op: repository.Eq}

	if f.Values != nil {
		v, known := f.Values[raw]
		if !known {
			return repository.Condition{}, false, nil
		}
		cond.Value = v
		return cond, true, nil
	}

	switch f.Kind {
	case model.Contains:
		cond.Op = repository.Contains
		cond.Value = raw
	case model.BoolMatch:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return repository.Condition{}, false, Invalid("%s: must be true or false", f.Param)
		}
		cond.Value = b
	case model.IntMatch:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return repository.Condition{}, false, Invalid("%s: must be an integer", f.Param)
		}
		cond.Value = n
	default:
		cond.Value = raw
	}
	return cond, true, nil
}

func (s *recordService) Get(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	rec, err := s.repo.FindByID(ctx, e, id)
	if err != nil {
		return nil, translate(e, err)
	}
	return rec, nil
}

func (s *recordService) ListBy(ctx context.Context, e *model.Entity, r model.Related, raw string) ([]model.Record, error) {
	f, ok := e.Field(r.Field)
	if !ok {
		return nil, Invalid("unknown lookup %s", r.Path)
	}
	v, err := model.ParseParam(f, raw)
	if err != nil {
		return nil, translate(e, err)
	}
	out, err := s.repo.FindBy(ctx, e, r.Field, v)
	if err != nil {
		return nil, translate(e, err)
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (s *recordService) Distinct(ctx context.Context, e *model.Entity, en model.Enum) ([]string, error) {
	out, err := s.repo.Distinct(ctx, e, en.Column)
	if err != nil {
		return nil, translate(e, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *recordService) Stats(ctx context.Context, e *model.Entity) (map[string]any, error) {
	out, err := s.repo.Stats(ctx, e)
	if err != nil {
		return nil, translate(e, err)
	}
	return out, nil
}

func (s *recordService) Create(ctx context.Context, e *model.Entity, p model.Patch) (model.Record, error) {
	if p == nil {
		p = model.Patch{}
	}
	if err := e.CheckCreate(p); err != nil {
		return nil, translate(e, err)
	}
	now := s.now()
	e.ApplyDefaults(p, now)

	var out model.Record
	err := s.inTx(ctx, func(tx repository.RecordTx) error {
		if err := checkParents(ctx, tx, e, p, nil); err != nil {
			return err
		}
		if e.Code != nil && p[e.Code.Field] == nil {
			code, err := nextCode(ctx, tx, e, now)
			if err != nil {
				return err
			}
			p[e.Code.Field] = code
		}
		if err := checkUnique(ctx, tx, e, p, 0); err != nil {
			return err
		}
		id, err := tx.Insert(ctx, e, p)
		if err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, e, id)
		return err
	})
	if err != nil {
		return nil, translate(e, err)
	}
	return out, nil
}

// nextCode serialises generation per table so concurrent creates never read the same last code.
func nextCode(ctx context.Context, tx repository.RecordTx, e *model.Entity, now time.Time) (string, error) {
	if err := tx.LockSequence(ctx, e); err != nil {
		return "", err
	}
	last, ok, err := tx.LastCode(ctx, e)
	if err != nil {
		return "", err
	}
	count, err := tx.Count(ctx, e)
	if err != nil {
		return "", err
	}
	return e.Code.Next(now, last, ok, count), nil
}

func (s *recordService) Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) (model.Record, error) {
	if p == nil {
		p = model.Patch{}
	}
	if err := e.CheckUpdate(p); err != nil {
		return nil, translate(e, err)
	}

	var out model.Record
	err := s.inTx(ctx, func(tx repository.RecordTx) error {
		current, err := tx.FindByID(ctx, e, id)
		if err != nil {
			return err
		}
		if err := checkParents(ctx, tx, e, p, current); err != nil {
			return err
		}
		if err := checkUnique(ctx, tx, e, p, id); err != nil {
			return err
		}
		if err := tx.Update(ctx, e, id, p); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, e, id)
		return err
	})
	if err != nil {
		return nil, translate(e, err)
	}
	return out, nil
}

func (s *recordService) Delete(ctx context.Context, e *model.Entity, id int64) (map[string]any, error) {
	var current model.Record
	err := s.inTx(ctx, func(tx repository.RecordTx) error {
		var err error
		if current, err = tx.FindByID(ctx, e, id); err != nil {
			return err
		}
		return tx.Delete(ctx, e, id)
	})
	if err != nil {
		return nil, translate(e, err)
	}

	out := model.EchoValues(e, current)
	out["message"] = e.Label + " deleted successfully"
	return out, nil
}

func (s *recordService) inTx(ctx context.Context, fn func(repository.RecordTx) error) (err error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// checkParents verifies every supplied, non-null reference. On update, references
// that did not change are not re-checked.
func checkParents(ctx context.Context, tx repository.RecordTx, e *model.Entity, p model.Patch, current model.Record) error {
	for _, parent := range e.Parents {
		v, ok := p[parent.Field]
		if !ok || v == nil {
			continue
		}
		if current != nil && current[parent.Field] == v {
			continue
		}
		exists, err := tx.ParentExists(ctx, parent, v)
		if err != nil {
			return err
		}
		if !exists {
			return NotFound("%s not found", parent.Label)
		}
	}
	return nil
}

func checkUnique(ctx context.Context, tx repository.RecordTx, e *model.Entity, p model.Patch, excludeID int64) error {
	for _, u := range e.Uniques {
		v, ok := p[u.Field]
		if !ok || v == nil {
			continue
		}
		taken, err := tx.Exists(ctx, e, u.Field, v, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return Conflict(u.Message)
		}
	}
	return nil
}
