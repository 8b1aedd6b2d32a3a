package reconcile

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Format(t *testing.T) {
	fp := Fingerprint(Member{Key: "1", Name: "A"})
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{64}$`), fp)
}

func TestFingerprint_KnownValue(t *testing.T) {
	// SHA-256 of "12345|Jane Doe|True||"
	m := Member{Key: "12345", Name: "Jane Doe", Active: true}
	assert.Equal(t, "45AC62699AD2B73F2F67EA6D1A2E1A85900D022441184DDFC4C84B4D440D9F8D", Fingerprint(m))

	// SHA-256 of "12345|Jane Doe|True|2026-01-01T23:59:59|2030-01-01T23:59:59"
	m.Valid = &ValidityWindow{Enable: true, BeginTime: DefaultBeginTime, EndTime: DefaultEndTime}
	assert.Equal(t, "5FACE46B5A42F675202E8CA8BF77F4E13CAE3DA5B8272A2A1AB224D23F507E2F", Fingerprint(m))
}

func TestFingerprint_IgnoresNonDeviceFields(t *testing.T) {
	base := Member{Key: "1", Name: "Alice", Active: true, Email: "a@example.com", Phone: "1", PictureURL: "x"}
	other := base
	other.Email = "changed@example.com"
	other.Phone = "2"
	other.PictureURL = "y"
	other.MemberID = "different"
	other.Status = "expired"

	assert.Equal(t, Fingerprint(base), Fingerprint(other))
}

func TestFingerprint_SensitiveFields(t *testing.T) {
	base := Member{
		Key:    "1",
		Name:   "Alice",
		Active: true,
		Valid:  &ValidityWindow{Enable: true, BeginTime: "2026-01-01T00:00:00", EndTime: "2027-01-01T00:00:00"},
	}

	tests := []struct {
		name   string
		mutate func(m *Member)
	}{
		{"Key", func(m *Member) { m.Key = "2" }},
		{"Name", func(m *Member) { m.Name = "Alicia" }},
		{"Enable", func(m *Member) { m.Valid.Enable = false }},
		{"BeginTime", func(m *Member) { m.Valid.BeginTime = "2026-01-02T00:00:00" }},
		{"EndTime", func(m *Member) { m.Valid.EndTime = "2027-01-02T00:00:00" }},
		{"WindowRemoved", func(m *Member) { m.Valid = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := base
			v := *base.Valid
			changed.Valid = &v
			tt.mutate(&changed)
			assert.NotEqual(t, Fingerprint(base), Fingerprint(changed))
		})
	}
}

func TestFingerprint_EffectiveEnable(t *testing.T) {
	// Window enable wins over the active flag
	withWindow := Member{Key: "1", Name: "A", Active: true, Valid: &ValidityWindow{Enable: false}}
	inactive := Member{Key: "1", Name: "A", Active: false, Valid: &ValidityWindow{Enable: false}}
	assert.Equal(t, Fingerprint(withWindow), Fingerprint(inactive))

	// Without a window the active flag decides
	active := Member{Key: "1", Name: "A", Active: true}
	notActive := Member{Key: "1", Name: "A", Active: false}
	assert.NotEqual(t, Fingerprint(active), Fingerprint(notActive))
}

func TestToDeviceRecord(t *testing.T) {
	t.Run("DefaultWindow", func(t *testing.T) {
		rec := ToDeviceRecord(Member{Key: "9", Name: "Dan", Active: true}, Options{})
		assert.Equal(t, "9", rec.EmployeeNo)
		assert.Equal(t, "Dan", rec.Name)
		assert.Equal(t, DefaultUserType, rec.UserType)
		assert.True(t, rec.Valid.Enable)
		assert.Equal(t, DefaultBeginTime, rec.Valid.BeginTime)
		assert.Equal(t, DefaultEndTime, rec.Valid.EndTime)
	})

	t.Run("PartialWindow", func(t *testing.T) {
		m := Member{Key: "9", Name: "Dan", Active: false, Valid: &ValidityWindow{Enable: true, EndTime: "2028-06-30T23:59:59"}}
		rec := ToDeviceRecord(m, DefaultOptions())
		assert.True(t, rec.Valid.Enable)
		assert.Equal(t, DefaultBeginTime, rec.Valid.BeginTime)
		assert.Equal(t, "2028-06-30T23:59:59", rec.Valid.EndTime)
	})

	t.Run("CustomOptions", func(t *testing.T) {
		opts := Options{UserType: "visitor", DefaultBegin: "2025-01-01T00:00:00", DefaultEnd: "2035-01-01T00:00:00"}
		rec := ToDeviceRecord(Member{Key: "9", Name: "Dan"}, opts)
		assert.Equal(t, "visitor", rec.UserType)
		assert.False(t, rec.Valid.Enable)
		assert.Equal(t, "2025-01-01T00:00:00", rec.Valid.BeginTime)
		assert.Equal(t, "2035-01-01T00:00:00", rec.Valid.EndTime)
	})
}
