package auth

// Group names as issued by the identity provider.
const (
	GroupManager = "Менеджер"
	GroupService = "Сервисная организация"
	GroupClient  = "Клиент"
)

// Role is the closed set of access levels a principal can resolve to.
type Role string

const (
	RoleNone    Role = ""
	RoleClient  Role = "client"
	RoleService Role = "service"
	RoleManager Role = "manager"
)

// Principal describes the authenticated-or-anonymous caller of a request.
// It is consumed as input from the identity provider, never stored here.
type Principal struct {
	ID            int64
	Authenticated bool
	Superuser     bool
	Groups        []string
}

// Anonymous is the principal attached to requests without credentials.
func Anonymous() Principal {
	return Principal{}
}

// InGroup reports whether the principal is a member of the named group.
func (p Principal) InGroup(name string) bool {
	for _, g := range p.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// ResolveRole maps a principal to exactly one role. Precedence is strict:
// Manager > Service > Client. A superuser is always a manager. An
// authenticated principal with no recognized group gets RoleNone, which
// grants zero access rather than failing the request.
func ResolveRole(p Principal) Role {
	if !p.Authenticated {
		return RoleNone
	}
	if p.Superuser || p.InGroup(GroupManager) {
		return RoleManager
	}
	if p.InGroup(GroupService) {
		return RoleService
	}
	if p.InGroup(GroupClient) {
		return RoleClient
	}
	return RoleNone
}
