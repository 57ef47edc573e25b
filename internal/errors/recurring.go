package errors

var ErrRecurringTypeRequired = BadRequest("recurring type required")

var ErrDueDateRequired = BadRequest("due date required")
