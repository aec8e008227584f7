package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"08012345678", "+2348012345678"},
		{"0801 234 5678", "+2348012345678"},
		{"2348012345678", "+2348012345678"},
		{"+2348012345678", "+2348012345678"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestProfileComplete(t *testing.T) {
	var nilProfile *UserProfile
	assert.False(t, nilProfile.Complete())
	assert.False(t, (&UserProfile{}).Complete())
	assert.False(t, (&UserProfile{Name: "   "}).Complete())
	assert.True(t, (&UserProfile{Name: "Amina"}).Complete())
}

func TestRememberLocation(t *testing.T) {
	p := &UserProfile{Name: "Amina"}
	barnawa := Location{Lat: 10.48, Lng: 7.42, Name: "Barnawa"}

	assert.True(t, p.RememberLocation(barnawa))
	assert.False(t, p.RememberLocation(barnawa), "same display name is not saved twice")
	assert.Len(t, p.SavedLocations, 1)

	kawo := Location{Lat: 10.59, Lng: 7.45, Name: "Kawo"}
	assert.True(t, p.RememberLocation(kawo))
	assert.Len(t, p.SavedLocations, 2)
}
