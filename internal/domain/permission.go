package domain

// Permission is the effective access level a principal has on an artifact.
// The values form a total order: Forbidden < Read < Write. Write implies Read.
type Permission int

const (
	Forbidden Permission = iota
	Read
	Write
)

// permissionNames holds the wire/storage form of each permission.
var permissionNames = map[Permission]string{
	Forbidden: "FORBIDDEN",
	Read:      "READ",
	Write:     "WRITE",
}

func (p Permission) String() string {
	if s, ok := permissionNames[p]; ok {
		return s
	}
	return "FORBIDDEN"
}

// AtLeast reports whether p grants at least the access level of q.
func (p Permission) AtLeast(q Permission) bool { return p >= q }

// Max returns the more permissive of p and q.
func (p Permission) Max(q Permission) Permission {
	if q > p {
		return q
	}
	return p
}

// ParsePermission converts a stored permission name back to a Permission.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "FORBIDDEN":
		return Forbidden, nil
	case "READ":
		return Read, nil
	case "WRITE":
		return Write, nil
	default:
		return Forbidden, ErrValidation("unknown permission %q", s)
	}
}
