package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Member represents a single member of the membership directory.
// It is produced fresh each cycle by a MemberSource and is never persisted verbatim.
type Member struct {
	// Key is the identity key pushed to the devices (the turnstile credential id).
	// An empty key excludes the member from sync.
	Key string `json:"key"`

	// MemberID is the directory's own identifier.
	MemberID string `json:"member_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email, Phone and PictureURL do not affect the device record.
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
	Gender     string `json:"gender,omitempty"`

	// Status is the directory membership status (e.g. "active", "expired").
	Status string `json:"status,omitempty"`

	// Active is the raw active flag reported by the directory.
	Active bool `json:"active"`

	// Valid is the optional validity window. Nil when the directory sent none.
	Valid *ValidityWindow `json:"valid,omitempty"`

	// LastUpdated is the directory's last modification time, if any.
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// ValidityWindow is the access window of a member or device record.
// Times are kept as the device-local strings the directory sent (e.g. "2026-01-01T23:59:59").
type ValidityWindow struct {
	Enable    bool   `json:"enable"`
	BeginTime string `json:"begin_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// HasKey reports whether the member carries a usable identity key.
func (m Member) HasKey() bool {
	return strings.TrimSpace(m.Key) != ""
}

// EffectiveEnable returns the validity window enable flag when a window is present,
// otherwise the raw active flag.
func (m Member) EffectiveEnable() bool {
	if m.Valid != nil {
		return m.Valid.Enable
	}
	return m.Active
}

// DeviceRecord is the shape pushed to an access-control device.
type DeviceRecord struct {
	EmployeeNo string         `json:"employee_no"`
	Name       string         `json:"name"`
	UserType   string         `json:"user_type"`
	Valid      ValidityWindow `json:"valid"`
}

// Roster is the set of identity keys currently provisioned on the device(s).
type Roster map[string]struct{}

// NewRoster builds a roster from a list of keys.
func NewRoster(keys ...string) Roster {
	r := make(Roster, len(keys))
	for _, k := range keys {
		r[k] = struct{}{}
	}
	return r
}

// Has reports whether key is present. A nil roster contains nothing.
func (r Roster) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// MemberError describes the failure of a single member (or of the cycle when Key is empty).
type MemberError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// String renders the error the way it is reported to operators.
func (e MemberError) String() string {
	if e.Key == "" {
		return e.Message
	}
	return fmt.Sprintf("TurnstileId %s: %s", e.Key, e.Message)
}

// CycleResult aggregates the outcome of one sync cycle.
type CycleResult struct {
	// ID uniquely identifies the cycle in logs and on the status endpoint.
	ID string `json:"id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Total is the number of members returned by the source.
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// Errors lists failures in processing order.
	Errors []MemberError `json:"errors"`

	// DriftDegraded is set when the device roster could not be read and every
	// member was treated as absent.
	DriftDegraded bool `json:"drift_degraded"`
}

// Duration returns how long the cycle took.
func (r *CycleResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ErrorStrings returns the human-readable error descriptions.
func (r *CycleResult) ErrorStrings() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.String())
	}
	return out
}

func (r *CycleResult) addError(key string, err error) {
	r.Errors = append(r.Errors, MemberError{Key: key, Message: err.Error()})
}

// Options tunes the engine.
type Options struct {
	// DetectDrift enables the device roster cross-check. When false every member
	// is assumed present on the device and only fingerprints decide.
	DetectDrift bool

	// UserType is the record type tag set on every device record.
	UserType string

	// DefaultBegin and DefaultEnd are used when a member has no validity window.
	DefaultBegin string
	DefaultEnd   string
}

// Default device record values.
const (
	DefaultUserType  = "normal"
	DefaultBeginTime = "2026-01-01T23:59:59"
	DefaultEndTime   = "2030-01-01T23:59:59"
)

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		DetectDrift:  true,
		UserType:     DefaultUserType,
		DefaultBegin: DefaultBeginTime,
		DefaultEnd:   DefaultEndTime,
	}
}

func (o Options) withDefaults() Options {
	if o.UserType == "" {
		o.UserType = DefaultUserType
	}
	if o.DefaultBegin == "" {
		o.DefaultBegin = DefaultBeginTime
	}
	if o.DefaultEnd == "" {
		o.DefaultEnd = DefaultEndTime
	}
	return o
}
