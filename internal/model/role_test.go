package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"CUSTOMER", RoleCustomer, true},
		{"organizer", RoleOrganizer, true},
		{"  Both  ", RoleBoth, true},
		{"", "", false},
		{"ADMIN", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestGrant(t *testing.T) {
	cases := []struct {
		current Role
		target  Role
		want    Role
	}{
		{RoleCustomer, RoleCustomer, RoleCustomer},
		{RoleCustomer, RoleOrganizer, RoleBoth},
		{RoleOrganizer, RoleCustomer, RoleBoth},
		{RoleOrganizer, RoleOrganizer, RoleOrganizer},
		{RoleBoth, RoleCustomer, RoleBoth},
		{RoleBoth, RoleOrganizer, RoleBoth},
		// A row with an unexpected label ends up holding the capacity
		// just exercised rather than blocking the flow.
		{Role("GUEST"), RoleCustomer, RoleCustomer},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.current.Grant(tc.target),
			"%s.Grant(%s)", tc.current, tc.target)
	}
}

func TestCapabilities(t *testing.T) {
	assert.True(t, RoleCustomer.CanPurchase())
	assert.False(t, RoleCustomer.CanOrganize())
	assert.True(t, RoleOrganizer.CanOrganize())
	assert.False(t, RoleOrganizer.CanPurchase())
	assert.True(t, RoleBoth.CanPurchase())
	assert.True(t, RoleBoth.CanOrganize())
}

func TestValidMethod(t *testing.T) {
	assert.True(t, ValidMethod(MethodBankTransfer))
	assert.True(t, ValidMethod(MethodMoMo))
	assert.True(t, ValidMethod(MethodZaloPay))
	assert.False(t, ValidMethod(""))
	assert.False(t, ValidMethod("momo"))
	assert.False(t, ValidMethod("PAYPAL"))
}
