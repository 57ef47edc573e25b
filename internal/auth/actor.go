package auth

import "childcare-tasks.com/childcare-tasks/internal/constants"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role constants.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}
