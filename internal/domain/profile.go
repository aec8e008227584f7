package domain

import (
	"strings"
	"time"
)

// UserProfile holds a registered customer's durable data. A profile with an
// empty name is incomplete and blocks order placement.
type UserProfile struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Photo          string     `json:"photo,omitempty"`
	SavedLocations []Location `json:"saved_locations,omitempty"`
	JoinedAt       time.Time  `json:"joined_at,omitempty"`
}

// Complete reports whether the profile allows order placement.
func (p *UserProfile) Complete() bool {
	return p != nil && strings.TrimSpace(p.Name) != ""
}

// RememberLocation appends loc to the saved-location list unless a location
// with the same display name is already present. Reports whether the list
// changed.
func (p *UserProfile) RememberLocation(loc Location) bool {
	for _, saved := range p.SavedLocations {
		if saved.Name == loc.Name {
			return false
		}
	}
	p.SavedLocations = append(p.SavedLocations, loc)
	return true
}

// NormalizePhone converts a Nigerian phone number to international format:
// non-digits are stripped, a leading 0 becomes +234, and a bare 234 prefix
// gains its plus sign. Anything else passes through digits-only.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return ""
	}
	if strings.HasPrefix(clean, "0") {
		return "+234" + clean[1:]
	}
	if len(clean) == 13 && strings.HasPrefix(clean, "234") {
		return "+" + clean
	}
	return clean
}
