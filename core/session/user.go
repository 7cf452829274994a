package session

import "slices"

// Role is one of the registry's access levels.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleMedecin  Role = "MEDECIN"
	RoleEtudiant Role = "ETUDIANT"
)

// User is the cached profile record persisted alongside the token pair.
// Field names follow the auth server's JSON shape.
type User struct {
	ID           string   `json:"id,omitempty"`
	Email        string   `json:"email,omitempty"`
	Username     string   `json:"username,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	FallbackRole string   `json:"fallbackRole,omitempty"`
	KeycloakID   string   `json:"keycloakId,omitempty"`
}

// userEnvelope matches the persisted layout of the "user" key: {"user":{...}}.
type userEnvelope struct {
	User *User `json:"user"`
}

// HasRole reports whether the user carries the given role, either in the
// realm roles list or as the fallback role.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	if slices.Contains(u.Roles, string(role)) {
		return true
	}
	return u.FallbackRole == string(role)
}

// PrimaryRole resolves the single effective role, preferring the most
// privileged one. Users without any recognized role are treated as students.
func (u *User) PrimaryRole() Role {
	switch {
	case u.HasRole(RoleAdmin):
		return RoleAdmin
	case u.HasRole(RoleMedecin):
		return RoleMedecin
	default:
		return RoleEtudiant
	}
}

// mergeUser overlays fresh profile fields on the cached record. Fields absent
// from the fresh record keep their cached values, so a refresh response that
// echoes only a subset of the profile never clobbers locally-known attributes.
func mergeUser(cached, fresh *User) *User {
	if fresh == nil {
		return cached
	}
	if cached == nil {
		out := *fresh
		return &out
	}

	out := *cached
	if fresh.ID != "" {
		out.ID = fresh.ID
	}
	if fresh.Email != "" {
		out.Email = fresh.Email
	}
	if fresh.Username != "" {
		out.Username = fresh.Username
	}
	if len(fresh.Roles) > 0 {
		out.Roles = fresh.Roles
	}
	if fresh.FallbackRole != "" {
		out.FallbackRole = fresh.FallbackRole
	}
	if fresh.KeycloakID != "" {
		out.KeycloakID = fresh.KeycloakID
	}
	return &out
}
