package model

import (
	"time"

	"childcare-tasks.com/childcare-tasks/internal/constants"
)

type Task struct {
	ID             string                   `gorm:"primaryKey;size:36" json:"id"`
	Title          string                   `gorm:"not null" json:"title"`
	Description    *string                  `json:"description"`
	DueDate        *time.Time               `gorm:"index" json:"dueDate"`
	Priority       constants.TaskPriority   `gorm:"type:varchar(10);not null;default:MEDIUM" json:"priority"`
	Status         constants.TaskStatus     `gorm:"type:varchar(20);not null;default:TODO;index" json:"status"`
	AssignedToID   string                   `gorm:"size:36;not null;index" json:"assignedToId"`
	IsRecurring    bool                     `gorm:"not null;default:false" json:"isRecurring"`
	RecurringType  *constants.RecurringType `gorm:"type:varchar(10)" json:"recurringType"`
	NextOccurrence *time.Time               `json:"nextOccurrence"`
	Deleted        bool                     `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}
