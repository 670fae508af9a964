package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole_KnownValues(t *testing.T) {
	for _, s := range []string{"UNVERIFIED", "PHONE_VERIFIED", "SUBSCRIBED"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
}

func TestParseRole_UnknownValueRejected(t *testing.T) {
	for _, s := range []string{"", "ADMIN", "unverified", "USER"} {
		_, err := ParseRole(s)
		require.Error(t, err, "expected %q to be rejected", s)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	}
}

func TestRole_TotalOrder(t *testing.T) {
	assert.Less(t, RoleUnverified.Rank(), RolePhoneVerified.Rank())
	assert.Less(t, RolePhoneVerified.Rank(), RoleSubscribed.Rank())
	assert.Equal(t, -1, Role("BOGUS").Rank())
}
