package dto

import (
	"childcare-tasks.com/childcare-tasks/internal/constants"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

type TaskPage struct {
	Tasks      []model.Task `json:"tasks"`
	NextCursor *string      `json:"nextCursor,omitempty"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type TaskStats struct {
	StatusCounts      map[constants.TaskStatus]int64 `json:"statusCounts"`
	CompletedOverTime []DailyCount                   `json:"completedOverTime"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}
