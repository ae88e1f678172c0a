package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Balakishore-16/team-155/internal/verify"
)

type AnalysisRepo struct{ DB *sql.DB }

func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{DB: db} }

// EnsureSchema creates the cache table when missing.
func (r *AnalysisRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists analyses_cache (
	input_hash  text        not null,
	model       text        not null,
	result_json jsonb       not null,
	created_at  timestamptz not null default now(),
	primary key (input_hash, model)
)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// Find returns the cached result for (inputHash, model). If maxAge > 0 and
// the row is older, it reports a miss so the caller re-runs the analysis.
func (r *AnalysisRepo) Find(ctx context.Context, inputHash, model string, maxAge time.Duration) (verify.DetectionResult, bool, error) {
	const q = `select result_json, created_at
	           from analyses_cache
	           where input_hash=$1 and model=$2`
	var (
		js []byte
		ts time.Time
	)
	if err := r.DB.QueryRowContext(ctx, q, inputHash, model).Scan(&js, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return verify.DetectionResult{}, false, nil
		}
		return verify.DetectionResult{}, false, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return verify.DetectionResult{}, false, nil
	}
	var res verify.DetectionResult
	if err := json.Unmarshal(js, &res); err != nil {
		// corrupt cache row counts as a miss
		return verify.DetectionResult{}, false, nil
	}
	return res, true, nil
}

// Upsert saves or refreshes the result for (inputHash, model).
func (r *AnalysisRepo) Upsert(ctx context.Context, inputHash, model string, res verify.DetectionResult) error {
	js, _ := json.Marshal(res)
	const q = `
insert into analyses_cache(input_hash, model, result_json)
values ($1,$2,$3)
on conflict (input_hash, model)
do update set result_json=excluded.result_json, created_at=now()`
	_, err := r.DB.ExecContext(ctx, q, inputHash, model, js)
	return err
}

// ForModel binds the repo to one model and max age, satisfying
// verify.ResultCache.
func (r *AnalysisRepo) ForModel(model string, maxAge time.Duration) verify.ResultCache {
	return &modelCache{repo: r, model: model, maxAge: maxAge}
}

type modelCache struct {
	repo   *AnalysisRepo
	model  string
	maxAge time.Duration
}

func (c *modelCache) Find(ctx context.Context, inputHash string) (verify.DetectionResult, bool, error) {
	return c.repo.Find(ctx, inputHash, c.model, c.maxAge)
}

func (c *modelCache) Save(ctx context.Context, inputHash string, res verify.DetectionResult) error {
	return c.repo.Upsert(ctx, inputHash, c.model, res)
}
