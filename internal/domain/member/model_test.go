package member_test

import (
	"strings"
	"testing"

	"coursedesk/internal/domain/geo"
	"coursedesk/internal/domain/member"
)

func validMember() member.Member {
	return member.Member{
		ID:         "m-001",
		Email:      "claire@example.org",
		FirstName:  "Claire",
		LastName:   "Moreau",
		City:       "Rennes",
		PostalCode: "35000",
	}
}

// TestValidate_Valid tests a fully populated member passes validation.
func TestValidate_Valid(t *testing.T) {
	m := validMember()
	if err := m.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestValidate_EmptyLastName tests that a blank last name is rejected.
func TestValidate_EmptyLastName(t *testing.T) {
	m := validMember()
	m.LastName = "   "
	if err := m.Validate(); err == nil {
		t.Error("expected error for empty last name")
	}
}

// TestValidate_BadEmail tests that an address without '@' is rejected.
func TestValidate_BadEmail(t *testing.T) {
	m := validMember()
	m.Email = "not-an-email"
	if err := m.Validate(); err == nil {
		t.Error("expected error for invalid email")
	}
}

// TestValidate_NameTooLong tests the name length cap.
func TestValidate_NameTooLong(t *testing.T) {
	m := validMember()
	m.LastName = strings.Repeat("x", member.MaxNameLength+1)
	if err := m.Validate(); err == nil {
		t.Error("expected error for oversized name")
	}
}

// TestCoordinate_Unset tests that a member without a cached coordinate
// reports none, even at (0,0).
func TestCoordinate_Unset(t *testing.T) {
	m := validMember()
	if _, ok := m.Coordinate(); ok {
		t.Error("expected no coordinate on fresh member")
	}
}

// TestSetCoordinate tests caching a resolved coordinate.
func TestSetCoordinate(t *testing.T) {
	m := validMember()
	m.SetCoordinate(geo.Coordinate{Lat: 48.1173, Lon: -1.6778})
	c, ok := m.Coordinate()
	if !ok {
		t.Fatal("expected coordinate after SetCoordinate")
	}
	if c.Lat != 48.1173 || c.Lon != -1.6778 {
		t.Errorf("unexpected coordinate: %+v", c)
	}
}

// TestFullName tests display name assembly.
func TestFullName(t *testing.T) {
	m := validMember()
	if got := m.FullName(); got != "Claire Moreau" {
		t.Errorf("expected 'Claire Moreau', got %q", got)
	}
	m.FirstName = ""
	if got := m.FullName(); got != "Moreau" {
		t.Errorf("expected 'Moreau', got %q", got)
	}
}
