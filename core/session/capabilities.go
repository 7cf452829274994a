package session

// Resource is a registry module access control applies to.
type Resource string

const (
	ResourcePatient      Resource = "PATIENT"
	ResourceConsultation Resource = "CONSULTATION"
	ResourceSeance       Resource = "SEANCE"
	ResourceUser         Resource = "USER"
	ResourceMedecin      Resource = "MEDECIN"
	ResourceEtudiant     Resource = "ETUDIANT"
	ResourceActions      Resource = "ACTIONS"
)

// Operation is an action on a resource.
type Operation string

const (
	OpList             Operation = "LIST"
	OpView             Operation = "VIEW"
	OpCreate           Operation = "CREATE"
	OpUpdate           Operation = "UPDATE"
	OpDelete           Operation = "DELETE"
	OpTransfer         Operation = "TRANSFER"
	OpValidateTransfer Operation = "VALIDATE_TRANSFER"
)

var (
	everyone   = []Role{RoleAdmin, RoleMedecin, RoleEtudiant}
	clinicians = []Role{RoleAdmin, RoleMedecin}
	adminOnly  = []Role{RoleAdmin}
)

// capabilities mirrors the registry API's RBAC matrix. Students are read-only
// everywhere; clinicians additionally need an ownership check on their own
// consultations and seances, which the server enforces.
var capabilities = map[Resource]map[Operation][]Role{
	ResourcePatient: {
		OpList: everyone, OpView: everyone,
		OpCreate: clinicians, OpUpdate: clinicians, OpDelete: clinicians,
		OpTransfer: clinicians,
	},
	ResourceConsultation: {
		OpList: everyone, OpView: everyone,
		OpCreate: clinicians, OpUpdate: clinicians, OpDelete: clinicians,
	},
	ResourceSeance: {
		OpList: everyone, OpView: everyone,
		OpCreate: clinicians, OpUpdate: clinicians, OpDelete: clinicians,
	},
	ResourceUser: {
		OpList: everyone, OpView: everyone,
		OpCreate: adminOnly, OpUpdate: adminOnly, OpDelete: adminOnly,
	},
	ResourceMedecin: {
		OpList: everyone, OpView: everyone,
		OpCreate: adminOnly, OpUpdate: adminOnly, OpDelete: adminOnly,
	},
	ResourceEtudiant: {
		OpList: everyone, OpView: everyone,
		OpCreate: adminOnly, OpUpdate: adminOnly, OpDelete: adminOnly,
	},
	ResourceActions: {
		OpList: adminOnly, OpValidateTransfer: adminOnly,
	},
}

// RoleCan reports whether role may perform op on resource. Unknown
// resource/operation pairs are denied.
func RoleCan(role Role, resource Resource, op Operation) bool {
	ops, ok := capabilities[resource]
	if !ok {
		return false
	}
	for _, r := range ops[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether the user's effective role may perform op on resource.
// This is a UI gate only; the server re-checks every call.
func (u *User) Can(resource Resource, op Operation) bool {
	if u == nil {
		return false
	}
	return RoleCan(u.PrimaryRole(), resource, op)
}
