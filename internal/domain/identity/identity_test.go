package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEmail(t *testing.T) {
	id, err := FromEmail("  Alice@UM6P.MA ", "@um6p.ma")
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "alice@um6p.ma", Role: RoleUser}, id)

	id, err = FromEmail("sysadmin@um6p.ma", "@um6p.ma")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	for _, bad := range []string{"", "alice@gmail.com", "@um6p.ma", "alice@um6p.ma.evil"} {
		_, err := FromEmail(bad, "@um6p.ma")
		assert.ErrorIs(t, err, ErrInvalidCredentials, bad)
	}
}

func TestRequire(t *testing.T) {
	assert.ErrorIs(t, RequireUser(Identity{}), ErrUnauthenticated)
	assert.ErrorIs(t, RequireAdmin(Identity{}), ErrUnauthenticated)
	assert.ErrorIs(t, RequireAdmin(Identity{ID: "a", Role: RoleUser}), ErrForbidden)
	assert.NoError(t, RequireAdmin(Identity{ID: "a", Role: RoleAdmin}))
	assert.NoError(t, RequireUser(Identity{ID: "a", Role: RoleUser}))
}
