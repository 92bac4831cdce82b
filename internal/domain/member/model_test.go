package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Can(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapEditEvents, true},
		{RoleStaff, CapScoreMatch, true},
		{RoleStaff, CapManageClock, true},
		{RolePlayer, CapScoreMatch, false},
		{RolePlayer, CapCheckIn, true},
		{RolePlayer, CapCreatePayment, true},
		{RoleGuest, CapCheckIn, false},
		{Role("coach"), CapCheckIn, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.role.Can(tc.cap), "%s/%s", tc.role, tc.cap)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Staff ")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, role)

	_, err = ParseRole("owner")
	assert.Error(t, err)
}
