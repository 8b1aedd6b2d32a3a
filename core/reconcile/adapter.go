package reconcile

import "context"

// MemberSource yields the current full membership snapshot.
type MemberSource interface {
	// FetchMembers returns every member in directory order.
	// It must fail atomically: on transport or format errors no partial list is returned.
	FetchMembers(ctx context.Context) ([]Member, error)
}

// DeviceSink pushes records to the access-control device(s).
type DeviceSink interface {
	// Upsert creates or updates one record. When the sink backs several devices,
	// it succeeds only if every device acknowledged the record.
	Upsert(ctx context.Context, record DeviceRecord) error

	// ListIdentities returns the identity keys present on the device(s).
	// For several devices this is the intersection of all rosters. If any
	// device cannot be read, the whole call fails.
	ListIdentities(ctx context.Context) (Roster, error)
}

// StateStore holds the last applied fingerprint of every identity key.
// The engine only touches state through this contract.
type StateStore interface {
	// Load reads durable state. It is idempotent and loads at most once.
	Load(ctx context.Context) error

	// GetFingerprint returns the stored fingerprint for key.
	GetFingerprint(ctx context.Context, key string) (string, bool, error)

	// SetFingerprint records fp for key in memory.
	SetFingerprint(key, fp string)

	// Save flushes the whole mapping to durable storage.
	Save(ctx context.Context) error
}
