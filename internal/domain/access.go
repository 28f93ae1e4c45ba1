package domain

import "github.com/google/uuid"

// RequireRole fails with an unauthorized error when the caller is absent or
// its role is not in the allowed set.
func RequireRole(caller *Caller, roles ...Role) error {
	if caller == nil {
		return Unauthorized()
	}
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return Unauthorized()
}

// RequireOwnership fails with an unauthorized error when the caller is
// absent or does not own the resource.
func RequireOwnership(caller *Caller, ownerID uuid.UUID) error {
	if caller == nil || caller.ID != ownerID {
		return Unauthorized()
	}
	return nil
}
