package domain

// ACL is a per-artifact access control list: one permission entry per user
// login and one per group name. An ACL is built once and never mutated; the
// constructor copies its inputs so later changes to the caller's maps cannot
// leak in. A nil *ACL means "no ACL" and the workspace default policy applies.
type ACL struct {
	users  map[string]Permission
	groups map[string]Permission
}

// NewACL builds an immutable ACL from user-entry and group-entry maps.
// Either map may be nil or empty.
func NewACL(users, groups map[string]Permission) *ACL {
	acl := &ACL{
		users:  make(map[string]Permission, len(users)),
		groups: make(map[string]Permission, len(groups)),
	}
	for login, p := range users {
		acl.users[login] = p
	}
	for name, p := range groups {
		acl.groups[name] = p
	}
	return acl
}

// UserEntry returns the permission entry for a user login, if present.
func (a *ACL) UserEntry(login string) (Permission, bool) {
	p, ok := a.users[login]
	return p, ok
}

// GroupEntry returns the permission entry for a group name, if present.
func (a *ACL) GroupEntry(name string) (Permission, bool) {
	p, ok := a.groups[name]
	return p, ok
}

// UserEntries returns a copy of the user-entry map.
func (a *ACL) UserEntries() map[string]Permission {
	out := make(map[string]Permission, len(a.users))
	for login, p := range a.users {
		out[login] = p
	}
	return out
}

// GroupEntries returns a copy of the group-entry map.
func (a *ACL) GroupEntries() map[string]Permission {
	out := make(map[string]Permission, len(a.groups))
	for name, p := range a.groups {
		out[name] = p
	}
	return out
}

// Empty reports whether the ACL has no entries at all. An empty ACL is still
// an ACL: it resolves everyone to Forbidden rather than falling back to the
// workspace default.
func (a *ACL) Empty() bool {
	return len(a.users) == 0 && len(a.groups) == 0
}
