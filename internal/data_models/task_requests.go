package dto

import (
	"time"

	"childcare-tasks.com/childcare-tasks/internal/constants"
	"childcare-tasks.com/childcare-tasks/internal/patch"
)

type CreateTaskRequest struct {
	Title         string                   `json:"title" validate:"required,max=255"`
	Description   *string                  `json:"description"`
	DueDate       *time.Time               `json:"dueDate"`
	Priority      constants.TaskPriority   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status        constants.TaskStatus     `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	AssignedToID  string                   `json:"assignedToId"`
	IsRecurring   bool                     `json:"isRecurring"`
	RecurringType *constants.RecurringType `json:"recurringType" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
}

// UpdateTaskRequest carries only the fields the caller sent; an explicit
// null clears nullable fields.
type UpdateTaskRequest struct {
	ID            string                               `json:"-" param:"id"`
	Title         patch.Field[string]                  `json:"title"`
	Description   patch.Field[string]                  `json:"description"`
	DueDate       patch.Field[time.Time]               `json:"dueDate"`
	Priority      patch.Field[constants.TaskPriority]  `json:"priority"`
	Status        patch.Field[constants.TaskStatus]    `json:"status"`
	AssignedToID  patch.Field[string]                  `json:"assignedToId"`
	IsRecurring   patch.Field[bool]                    `json:"isRecurring"`
	RecurringType patch.Field[constants.RecurringType] `json:"recurringType"`
}

// ListTasksRequest is bound from the query string. Limit is nil when the
// caller did not send one; the handler parses it itself.
type ListTasksRequest struct {
	Limit        *int
	Cursor       string               `query:"cursor"`
	Status       constants.TaskStatus `query:"status"`
	AssignedToID string               `query:"assignedToId"`
	SortOrder    constants.SortOrder  `query:"sortOrder"`
}
