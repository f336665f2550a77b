package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bovinemagnet/pg-console/internal/compare"
	"github.com/bovinemagnet/pg-console/internal/introspect"
	"github.com/bovinemagnet/pg-console/internal/introspect/postgres"
	"github.com/bovinemagnet/pg-console/internal/schema"
)

// Snapshotter captures one endpoint's schema. The default connects with
// a pgx pool and runs the catalog introspector; tests substitute fakes.
type Snapshotter func(ctx context.Context, ep Endpoint) (*schema.Schema, error)

// Runner executes profiles: snapshot both endpoints, compare, record
// the run summary back into the store.
type Runner struct {
	store    *Store
	log      *zap.Logger
	snapshot Snapshotter
}

// NewRunner returns a Runner using live introspection. The store may be
// nil for ad-hoc runs (last-run bookkeeping is then skipped); the
// logger may be nil.
func NewRunner(store *Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{store: store, log: log}
	r.snapshot = r.liveSnapshot
	return r
}

// WithSnapshotter overrides how endpoint snapshots are captured.
func (r *Runner) WithSnapshotter(s Snapshotter) *Runner {
	r.snapshot = s
	return r
}

// Run executes the named profile from the store. A Runner built without
// a store can only run ad-hoc profiles via RunProfile.
func (r *Runner) Run(ctx context.Context, name string) (*compare.Result, error) {
	if r.store == nil {
		return nil, errors.New("runner has no profile store")
	}
	p, err := r.store.Get(name)
	if err != nil {
		return nil, err
	}
	return r.RunProfile(ctx, p), nil
}

// RunProfile executes the given profile and returns its result. An
// introspection failure on either side yields a failed result with the
// error recorded; matching never runs on a partial pair of snapshots.
func (r *Runner) RunProfile(ctx context.Context, p *Profile) *compare.Result {
	src := target(p.Source)
	dst := target(p.Destination)

	r.log.Info("running comparison",
		zap.String("profile", p.Name),
		zap.String("source", src.String()),
		zap.String("destination", dst.String()))

	result := r.execute(ctx, p, src, dst)

	p.LastRunAt = time.Now().UTC()
	summary := result.Summary
	p.LastRun = &summary
	if r.store != nil && p.Name != "" {
		if err := r.store.Put(p); err != nil {
			r.log.Warn("failed to record run", zap.String("profile", p.Name), zap.Error(err))
		}
	}

	r.log.Info("comparison finished",
		zap.String("profile", p.Name),
		zap.Bool("success", result.Success),
		zap.Int("differences", len(result.Differences)),
		zap.Bool("breaking", result.HasBreakingChanges()),
		zap.Duration("duration", result.Duration))

	return result
}

func (r *Runner) execute(ctx context.Context, p *Profile, src, dst compare.Target) *compare.Result {
	sourceSnap, err := r.snapshot(ctx, p.Source)
	if err != nil {
		r.log.Error("source introspection failed", zap.Error(err))
		return compare.Failed(src, dst, p.Filter, err)
	}

	destSnap, err := r.snapshot(ctx, p.Destination)
	if err != nil {
		r.log.Error("destination introspection failed", zap.Error(err))
		return compare.Failed(src, dst, p.Filter, err)
	}

	return compare.Compare(sourceSnap, destSnap, src, dst, p.Filter)
}

func (r *Runner) liveSnapshot(ctx context.Context, ep Endpoint) (*schema.Schema, error) {
	conn := introspect.NewConnector(ep.DSN, r.log)
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	defer conn.Close()

	return postgres.New(conn.Pool(), r.log).Snapshot(ctx, ep.Schema)
}

func target(ep Endpoint) compare.Target {
	return compare.Target{
		Instance: introspect.RedactDSN(ep.DSN),
		Schema:   ep.Schema,
	}
}
