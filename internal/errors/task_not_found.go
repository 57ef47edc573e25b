package errors

var ErrTaskNotFound = NotFound("task not found")

var ErrUserNotFound = NotFound("assigned user not found")
