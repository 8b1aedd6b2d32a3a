package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine runs sync cycles between a MemberSource and a DeviceSink.
// It performs no locking of its own; callers must not run cycles concurrently.
type Engine struct {
	source MemberSource
	sink   DeviceSink
	state  StateStore
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

// NewEngine creates a new reconciliation engine.
func NewEngine(source MemberSource, sink DeviceSink, state StateStore, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source: source,
		sink:   sink,
		state:  state,
		logger: logger,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// RunCycle performs one fetch, diff, apply, persist and report pass.
//
// The returned result is never nil. The error is non-nil when the cycle could not
// complete: a *SourceFetchError or a load *StateError (nothing processed), the
// context error on cancellation (no flush), or a save *StateError (counts kept).
// Per-member upsert failures are reported in the result only.
func (e *Engine) RunCycle(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
		Errors:    []MemberError{},
	}
	defer func() { result.FinishedAt = e.now() }()

	l := e.logger.With(zap.String("cycle_id", result.ID))

	// 1. Fetch members
	l.Info("Fetching members")
	members, err := e.source.FetchMembers(ctx)
	if err != nil {
		fetchErr := &SourceFetchError{Err: err}
		l.Error("Failed to fetch members", zap.Error(err))
		result.addError("", fetchErr)
		return result, fetchErr
	}
	l.Info("Fetched members", zap.Int("count", len(members)))

	// 2. Load state
	if err := e.state.Load(ctx); err != nil {
		stateErr := &StateError{Op: "load", Err: err}
		l.Error("Failed to load sync state", zap.Error(err))
		result.addError("", stateErr)
		return result, stateErr
	}

	// 3. Device roster (fail-open)
	roster := e.fetchRoster(ctx, l, result)

	result.Total = len(members)

	// 4. Apply
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			l.Warn("Cycle cancelled, state left unflushed",
				zap.Int("synced", result.Synced),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
			return result, err
		}
		e.processMember(ctx, l, m, roster, result)
	}

	// 5. Persist once
	if err := e.state.Save(ctx); err != nil {
		stateErr := &StateError{Op: "save", Err: err}
		l.Error("Failed to save sync state", zap.Error(err))
		result.addError("state", stateErr)
		return result, stateErr
	}

	l.Info("Sync complete",
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// fetchRoster returns the device roster, or an empty roster when it cannot be read.
// When drift detection is disabled it returns nil, which processMember treats as
// "every member present".
func (e *Engine) fetchRoster(ctx context.Context, l *zap.Logger, result *CycleResult) Roster {
	if !e.opts.DetectDrift {
		return nil
	}

	roster, err := e.sink.ListIdentities(ctx)
	if err != nil {
		l.Warn("Failed to fetch users from device, will force re-sync of all", zap.Error(err))
		result.DriftDegraded = true
		return Roster{}
	}
	if roster == nil {
		roster = Roster{}
	}
	l.Debug("Fetched device roster", zap.Int("count", len(roster)))
	return roster
}

func (e *Engine) processMember(ctx context.Context, l *zap.Logger, m Member, roster Roster, result *CycleResult) {
	if !m.HasKey() {
		l.Debug("Skipping member without identity key",
			zap.String("member_id", m.MemberID),
			zap.String("name", m.Name),
		)
		result.Skipped++
		return
	}

	fp := Fingerprint(m)

	stored, _, err := e.state.GetFingerprint(ctx, m.Key)
	if err != nil {
		// State is loaded before the loop; a lookup failure just forces a push.
		l.Warn("Failed to read stored fingerprint", zap.String("key", m.Key), zap.Error(err))
		stored = ""
	}

	existsOnDevice := roster == nil || roster.Has(m.Key)

	// Only skip if the device has the member AND nothing changed.
	if existsOnDevice && stored == fp {
		result.Skipped++
		return
	}

	record := ToDeviceRecord(m, e.opts)
	if err := e.sink.Upsert(ctx, record); err != nil {
		// Fingerprint stays stale so the next cycle retries this member.
		l.Error("Failed to sync member",
			zap.String("key", m.Key),
			zap.String("name", m.Name),
			zap.Error(err),
		)
		result.addError(m.Key, err)
		result.Failed++
		return
	}

	e.state.SetFingerprint(m.Key, fp)
	result.Synced++

	l.Debug("Synced member",
		zap.String("key", m.Key),
		zap.Bool("existed_on_device", existsOnDevice),
		zap.Bool("changed", stored != fp),
	)
}
