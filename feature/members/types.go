package members

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"hikvision-sync/core/reconcile"
	"hikvision-sync/core/utils"
)

// Response is the directory envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    []GymMember `json:"data"`
}

// GymMember is a member as sent by the directory.
type GymMember struct {
	FullName          string         `json:"fullName"`
	Email             string         `json:"email"`
	ProfilePictureURL string         `json:"profilePictureUrl"`
	PhoneNumber       string         `json:"phoneNumber"`
	MembershipStatus  string         `json:"membershipStatus"`
	TurnstileID       FlexibleString `json:"turnstileId"`
	MemberID          any            `json:"memberId"`
	IsActive          any            `json:"isActive"`
	Gender            string         `json:"gender"`
	Valid             *GymValidity   `json:"Valid"`
	LastUpdated       string         `json:"lastUpdated"`
}

// GymValidity is the optional access window of a member.
type GymValidity struct {
	Enable    bool   `json:"enable"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
}

// FlexibleString accepts a JSON string, number or null.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString(s)
		return nil
	}

	// Keep number literals verbatim so large ids never pass through float64.
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleString(n.String())
	return nil
}

var lastUpdatedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ToMember converts the directory payload into a reconcile.Member.
func (g GymMember) ToMember() reconcile.Member {
	m := reconcile.Member{
		Key:        strings.TrimSpace(string(g.TurnstileID)),
		MemberID:   utils.ToString(g.MemberID),
		Name:       g.FullName,
		Email:      g.Email,
		Phone:      g.PhoneNumber,
		PictureURL: g.ProfilePictureURL,
		Gender:     g.Gender,
		Status:     g.MembershipStatus,
		Active:     utils.ToBool(g.IsActive),
	}

	if g.Valid != nil {
		m.Valid = &reconcile.ValidityWindow{
			Enable:    g.Valid.Enable,
			BeginTime: g.Valid.BeginTime,
			EndTime:   g.Valid.EndTime,
		}
	}

	for _, layout := range lastUpdatedLayouts {
		if ts, err := time.Parse(layout, g.LastUpdated); err == nil {
			m.LastUpdated = &ts
			break
		}
	}

	return m
}
