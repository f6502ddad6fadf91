package auth

import "github.com/retailpoint/posadmin-backend/pkg/enums"

// RoleAllowed reports whether a principal carrying role may access a surface
// restricted to the required roles. An empty required set means any
// authenticated principal is allowed. Unknown roles are always denied.
func RoleAllowed(role enums.UserRole, required ...enums.UserRole) bool {
	if !role.IsValid() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, candidate := range required {
		if candidate == role {
			return true
		}
	}
	return false
}
