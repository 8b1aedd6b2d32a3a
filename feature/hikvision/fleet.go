package hikvision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hikvision-sync/core/reconcile"

	"go.uber.org/zap"
)

// Fleet fans records out to every configured reader.
// It implements reconcile.DeviceSink.
type Fleet struct {
	devices []*Device
	logger  *zap.Logger
}

var _ reconcile.DeviceSink = (*Fleet)(nil)

// NewFleet creates a fleet from the configured readers.
func NewFleet(cfg Config, logger *zap.Logger) (*Fleet, error) {
	readers := cfg.Readers()
	if len(readers) == 0 {
		return nil, errors.New("no Hikvision reader configured (set hikvision.reader_urls or hikvision.base_url)")
	}

	devices := make([]*Device, 0, len(readers))
	for _, url := range readers {
		devices = append(devices, NewDevice(url, cfg, logger))
	}
	return &Fleet{devices: devices, logger: logger}, nil
}

// Devices returns the readers in configuration order.
func (f *Fleet) Devices() []*Device {
	return f.devices
}

// Upsert pushes the record to every reader. Readers after a failing one are still
// attempted; the record counts as applied only when all of them acknowledged it.
func (f *Fleet) Upsert(ctx context.Context, rec reconcile.DeviceRecord) error {
	var errs []error
	var failed []string

	for _, d := range f.devices {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Upsert(ctx, rec); err != nil {
			errs = append(errs, err)
			failed = append(failed, d.URL())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &reconcile.UpsertError{
		Key:    rec.EmployeeNo,
		Device: strings.Join(failed, ", "),
		Err:    errors.Join(errs...),
	}
}

// ListIdentities returns the identities present on every reader.
// Any unreadable reader fails the whole call.
func (f *Fleet) ListIdentities(ctx context.Context) (reconcile.Roster, error) {
	rosters := make([]reconcile.Roster, 0, len(f.devices))
	for _, d := range f.devices {
		r, err := d.ListIdentities(ctx)
		if err != nil {
			return nil, &reconcile.RosterFetchError{Device: d.URL(), Err: err}
		}
		rosters = append(rosters, r)
	}
	return reconcile.IntersectRosters(rosters...), nil
}

// RosterReport is the per-reader roster size used by the roster command.
type RosterReport struct {
	Reader string
	Count  int
	Err    error
}

// Inspect reads every reader roster without failing fast and returns the
// per-reader report plus the intersection of the readable ones.
func (f *Fleet) Inspect(ctx context.Context) ([]RosterReport, reconcile.Roster) {
	reports := make([]RosterReport, 0, len(f.devices))
	var rosters []reconcile.Roster

	for _, d := range f.devices {
		r, err := d.ListIdentities(ctx)
		if err != nil {
			f.logger.Warn("Failed to read reader roster", zap.String("reader", d.URL()), zap.Error(err))
			reports = append(reports, RosterReport{Reader: d.URL(), Err: fmt.Errorf("list identities: %w", err)})
			continue
		}
		reports = append(reports, RosterReport{Reader: d.URL(), Count: len(r)})
		rosters = append(rosters, r)
	}
	return reports, reconcile.IntersectRosters(rosters...)
}
