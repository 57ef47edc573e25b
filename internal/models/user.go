package model

import (
	"time"

	"childcare-tasks.com/childcare-tasks/internal/constants"
)

// User is the minimal identity record tasks are assigned to.
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      constants.Role `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	PushToken *string        `json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
