// Package policy holds the authorization rules for task operations. Every
// rule returns a Decision so callers can surface the reason on denial.
package policy

import (
	"childcare-tasks.com/childcare-tasks/internal/auth"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into a FORBIDDEN error; it returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperrors.Forbidden(d.Reason)
}

// CanAssign decides whether actor may assign a task to assigneeID. An empty
// assigneeID means self-assignment.
func CanAssign(actor auth.Actor, assigneeID string) Decision {
	if assigneeID == "" || assigneeID == actor.ID || actor.IsAdmin() {
		return allow()
	}
	return deny("only admins can assign tasks to other users")
}

// CanModify decides whether actor may update or delete task.
func CanModify(actor auth.Actor, task *model.Task) Decision {
	if actor.IsAdmin() || task.AssignedToID == actor.ID {
		return allow()
	}
	return deny("you can only modify tasks assigned to you")
}

// ViewScope returns the assignee filter actor is allowed to query with.
// Admins keep the requested filter; everyone else is pinned to themselves.
func ViewScope(actor auth.Actor, requested string) string {
	if actor.IsAdmin() {
		return requested
	}
	return actor.ID
}
