package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromUser(t *testing.T) {
	id, err := IdentityFromUser(User{Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	assert.IsType(t, AdminSession{}, id)

	tenantID := "7d1c5a2e-1111-2222-3333-444455556666"
	id, err = IdentityFromUser(User{Username: "asha", Role: RoleTenant, TenantID: &tenantID})
	require.NoError(t, err)
	require.IsType(t, TenantSession{}, id)
	assert.Equal(t, tenantID, id.(TenantSession).TenantID)

	_, err = IdentityFromUser(User{Username: "asha", Role: RoleTenant})
	assert.Error(t, err)
	_, err = IdentityFromUser(User{Username: "root", Role: "superuser"})
	assert.Error(t, err)
}

func TestSessionPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())

	require.NoError(t, s.Login("tok-1", AdminSession{User: User{Username: "admin", Role: RoleAdmin}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restored, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", restored.Token())
	assert.Equal(t, AdminDashboardView, Route(restored.Current()))

	require.NoError(t, restored.Logout())
	assert.Nil(t, restored.Current())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	empty, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, empty.Current())
}

func TestSessionRejectsIncompleteLogin(t *testing.T) {
	s := NewSession("")
	assert.Error(t, s.Login("", AdminSession{}))
	assert.Error(t, s.Login("tok", nil))
}

func TestLoadSessionRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := LoadSession(path)
	assert.Error(t, err)
}
