package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// accessTokenClaims covers the subset of Keycloak access-token claims the
// client cares about.
type accessTokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// userFromAccessToken derives a minimal profile from the access-token claims
// when the auth server omits the user object from its response. The token is
// parsed without signature verification: validating it is the server's job,
// the client only mirrors what was issued to it.
func userFromAccessToken(raw string) *User {
	if raw == "" {
		return nil
	}

	claims := &accessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}

	if claims.Subject == "" && claims.PreferredUsername == "" && claims.Email == "" {
		return nil
	}

	return &User{
		ID:         claims.Subject,
		KeycloakID: claims.Subject,
		Username:   claims.PreferredUsername,
		Email:      claims.Email,
		Roles:      knownRoles(claims.RealmAccess.Roles),
	}
}

// knownRoles filters realm roles down to the registry's access levels,
// dropping Keycloak built-ins like offline_access.
func knownRoles(roles []string) []string {
	var out []string
	for _, r := range roles {
		switch Role(r) {
		case RoleAdmin, RoleMedecin, RoleEtudiant:
			out = append(out, r)
		}
	}
	return out
}
