package model

import (
	"context"
	"stays/shared/constant"
)

// Caller is the principal resolved by the auth middleware.
type Caller struct {
	ID    string
	Email string
	Role  string
}

func CallerFromContext(ctx context.Context) Caller {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Caller{ID: id, Email: email, Role: role}
}

func (c Caller) IsAdmin() bool {
	return c.Role == constant.RoleAdmin || c.Role == constant.RoleSuperAdmin
}

func (c Caller) IsAnonymous() bool {
	return c.ID == constant.Empty
}

// IsSystem reports the identity the API key middleware assigns to internal callers.
func (c Caller) IsSystem() bool {
	return c.ID == constant.ContextSystem
}

// HasAccount reports whether the caller maps to a row in users.
func (c Caller) HasAccount() bool {
	return !c.IsAnonymous() && !c.IsSystem()
}

// Actor is the value written to created_by / modified_by.
func (c Caller) Actor() string {
	if c.ID == constant.Empty {
		return constant.ContextGuest
	}

	return c.ID
}
