package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestUserFromAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("derives profile from keycloak claims", func(t *testing.T) {
		t.Parallel()

		raw := signToken(t, jwt.MapClaims{
			"sub":                "kc-42",
			"preferred_username": "docteur",
			"email":              "docteur@clinic.test",
			"realm_access": map[string]any{
				"roles": []string{"offline_access", "MEDECIN", "uma_authorization"},
			},
		})

		u := userFromAccessToken(raw)
		require.NotNil(t, u)
		assert.Equal(t, "kc-42", u.ID)
		assert.Equal(t, "kc-42", u.KeycloakID)
		assert.Equal(t, "docteur", u.Username)
		assert.Equal(t, "docteur@clinic.test", u.Email)
		assert.Equal(t, []string{"MEDECIN"}, u.Roles)
	})

	t.Run("no identifying claims yields nil", func(t *testing.T) {
		t.Parallel()

		raw := signToken(t, jwt.MapClaims{"aud": "clinreg"})
		assert.Nil(t, userFromAccessToken(raw))
	})

	t.Run("empty token yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, userFromAccessToken(""))
	})

	t.Run("malformed token yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, userFromAccessToken("not-a-jwt"))
	})
}

func TestKnownRoles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ADMIN", "ETUDIANT"},
		knownRoles([]string{"offline_access", "ADMIN", "default-roles-clinreg", "ETUDIANT"}))
	assert.Nil(t, knownRoles([]string{"offline_access"}))
	assert.Nil(t, knownRoles(nil))
}
