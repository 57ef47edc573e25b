package errors

var (
	ErrInvalidLimit     = BadRequest("limit must be between 1 and 100")
	ErrInvalidSortOrder = BadRequest("sort order must be asc or desc")
	ErrInvalidStatus    = BadRequest("invalid task status")
	ErrInvalidPriority  = BadRequest("invalid task priority")
	ErrInvalidRecurring = BadRequest("invalid recurring type")
	ErrInvalidCursor    = BadRequest("invalid cursor")
	ErrTitleRequired    = BadRequest("title is required")
	ErrTitleTooLong     = BadRequest("title must be at most 255 characters")
	ErrTaskIDRequired   = BadRequest("task id is required")
)
