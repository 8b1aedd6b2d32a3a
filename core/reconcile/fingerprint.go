package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintSeparator joins the fingerprinted fields. Changing it, or the field
// order below, invalidates every stored fingerprint and forces a full re-sync.
const fingerprintSeparator = "|"

// Fingerprint returns the uppercase hex SHA-256 digest of the fields that shape
// the device record: key, name, effective enable flag, begin time and end time.
// Members that only differ in other fields (email, phone, picture) share a fingerprint.
func Fingerprint(m Member) string {
	var begin, end string
	if m.Valid != nil {
		begin = m.Valid.BeginTime
		end = m.Valid.EndTime
	}

	payload := strings.Join([]string{
		m.Key,
		m.Name,
		formatBool(m.EffectiveEnable()),
		begin,
		end,
	}, fingerprintSeparator)

	sum := sha256.Sum256([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// formatBool keeps the "True"/"False" rendering used by existing state files.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ToDeviceRecord maps a member to the record pushed to devices.
// A validity window is always emitted, falling back to the default window.
func ToDeviceRecord(m Member, opts Options) DeviceRecord {
	opts = opts.withDefaults()

	valid := ValidityWindow{
		Enable:    m.EffectiveEnable(),
		BeginTime: opts.DefaultBegin,
		EndTime:   opts.DefaultEnd,
	}
	if m.Valid != nil {
		if m.Valid.BeginTime != "" {
			valid.BeginTime = m.Valid.BeginTime
		}
		if m.Valid.EndTime != "" {
			valid.EndTime = m.Valid.EndTime
		}
	}

	return DeviceRecord{
		EmployeeNo: m.Key,
		Name:       m.Name,
		UserType:   opts.UserType,
		Valid:      valid,
	}
}
