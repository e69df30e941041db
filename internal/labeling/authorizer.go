package labeling

import "context"

// Role classifies a user for access control purposes.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTester Role = "tester"
	RoleNone   Role = "none"
)

// Authorizer resolves a user identity to a role. Only admins may label.
type Authorizer interface {
	RoleFor(ctx context.Context, userID string) (Role, error)
}

// StaticAuthorizer resolves roles from fixed user-id lists (the config's
// labeling section).
type StaticAuthorizer struct {
	admins  map[string]struct{}
	testers map[string]struct{}
}

// NewStaticAuthorizer builds an authorizer over the given id lists.
func NewStaticAuthorizer(admins, testers []string) *StaticAuthorizer {
	a := &StaticAuthorizer{
		admins:  make(map[string]struct{}, len(admins)),
		testers: make(map[string]struct{}, len(testers)),
	}
	for _, id := range admins {
		a.admins[id] = struct{}{}
	}
	for _, id := range testers {
		a.testers[id] = struct{}{}
	}
	return a
}

// RoleFor implements Authorizer.
func (a *StaticAuthorizer) RoleFor(_ context.Context, userID string) (Role, error) {
	if _, ok := a.admins[userID]; ok {
		return RoleAdmin, nil
	}
	if _, ok := a.testers[userID]; ok {
		return RoleTester, nil
	}
	return RoleNone, nil
}
