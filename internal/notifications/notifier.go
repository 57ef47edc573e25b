package notifications

import (
	"context"
	"fmt"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Notifier turns task events into push messages for the affected user.
type Notifier struct {
	users      UserFinder
	dispatcher Dispatcher
}

func NewNotifier(users UserFinder, dispatcher Dispatcher) *Notifier {
	return &Notifier{
		users:      users,
		dispatcher: dispatcher,
	}
}

// TaskAssigned tells userID that task was assigned to them. A user without a
// registered push token yields ErrPushTokenMissing.
func (n *Notifier) TaskAssigned(ctx context.Context, userID string, task *model.Task) error {
	user, err := n.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return apperrors.ErrPushTokenMissing
	}

	result, err := n.dispatcher.Send(
		ctx,
		*user.PushToken,
		"New Task Assigned",
		fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		map[string]any{"taskId": task.ID},
	)
	if err != nil {
		return fmt.Errorf("dispatch push notification: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("push notification rejected: %s", result.Error)
	}
	return nil
}
