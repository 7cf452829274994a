package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_HasRole(t *testing.T) {
	t.Parallel()

	t.Run("realm role", func(t *testing.T) {
		t.Parallel()

		u := &User{Roles: []string{"MEDECIN"}}
		assert.True(t, u.HasRole(RoleMedecin))
		assert.False(t, u.HasRole(RoleAdmin))
	})

	t.Run("fallback role", func(t *testing.T) {
		t.Parallel()

		u := &User{FallbackRole: "ETUDIANT"}
		assert.True(t, u.HasRole(RoleEtudiant))
		assert.False(t, u.HasRole(RoleMedecin))
	})

	t.Run("nil user has no roles", func(t *testing.T) {
		t.Parallel()

		var u *User
		assert.False(t, u.HasRole(RoleAdmin))
	})
}

func TestUser_PrimaryRole(t *testing.T) {
	t.Parallel()

	t.Run("admin wins over other roles", func(t *testing.T) {
		t.Parallel()

		u := &User{Roles: []string{"MEDECIN", "ADMIN"}}
		assert.Equal(t, RoleAdmin, u.PrimaryRole())
	})

	t.Run("medecin over etudiant", func(t *testing.T) {
		t.Parallel()

		u := &User{Roles: []string{"ETUDIANT", "MEDECIN"}}
		assert.Equal(t, RoleMedecin, u.PrimaryRole())
	})

	t.Run("defaults to etudiant", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, RoleEtudiant, (&User{}).PrimaryRole())
		assert.Equal(t, RoleEtudiant, (*User)(nil).PrimaryRole())
	})
}

func TestMergeUser(t *testing.T) {
	t.Parallel()

	t.Run("nil fresh keeps cached", func(t *testing.T) {
		t.Parallel()

		cached := &User{ID: "u1", Email: "a@clinic.test"}
		assert.Same(t, cached, mergeUser(cached, nil))
	})

	t.Run("nil cached copies fresh", func(t *testing.T) {
		t.Parallel()

		fresh := &User{ID: "u1"}
		got := mergeUser(nil, fresh)
		require.NotNil(t, got)
		assert.NotSame(t, fresh, got)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("fresh fields win, absent fields survive", func(t *testing.T) {
		t.Parallel()

		cached := &User{
			ID:           "u1",
			Email:        "old@clinic.test",
			Username:     "docteur",
			Roles:        []string{"MEDECIN"},
			FallbackRole: "MEDECIN",
			KeycloakID:   "kc-1",
		}
		fresh := &User{Email: "new@clinic.test", Roles: []string{"ADMIN"}}

		got := mergeUser(cached, fresh)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.ID)
		assert.Equal(t, "new@clinic.test", got.Email)
		assert.Equal(t, "docteur", got.Username)
		assert.Equal(t, []string{"ADMIN"}, got.Roles)
		assert.Equal(t, "MEDECIN", got.FallbackRole)
		assert.Equal(t, "kc-1", got.KeycloakID)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		t.Parallel()

		cached := &User{ID: "u1", Email: "old@clinic.test"}
		fresh := &User{Email: "new@clinic.test"}
		_ = mergeUser(cached, fresh)

		assert.Equal(t, "old@clinic.test", cached.Email)
		assert.Equal(t, "", fresh.ID)
	})
}
