package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	"childcare-tasks.com/childcare-tasks/internal/cache"
	"childcare-tasks.com/childcare-tasks/internal/constants"
	dto "childcare-tasks.com/childcare-tasks/internal/data_models"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	"childcare-tasks.com/childcare-tasks/internal/logger"
	"childcare-tasks.com/childcare-tasks/internal/metrics"
	model "childcare-tasks.com/childcare-tasks/internal/models"
	"childcare-tasks.com/childcare-tasks/internal/policy"
	"childcare-tasks.com/childcare-tasks/internal/recurrence"
	repository "childcare-tasks.com/childcare-tasks/internal/repositories"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxTitleLength   = 255
)

// AssignmentNotifier is told about tasks assigned to a user after the write commits.
type AssignmentNotifier interface {
	TaskAssigned(ctx context.Context, userID string, task *model.Task) error
}

type TaskService struct {
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	notifier AssignmentNotifier
	stats    cache.StatsCache
	location *time.Location
	now      func() time.Time
	tracer   trace.Tracer
}

type Option func(*TaskService)

func WithStatsCache(c cache.StatsCache) Option {
	return func(s *TaskService) {
		if c != nil {
			s.stats = c
		}
	}
}

// WithLocation sets the time zone used to bucket completions by calendar date.
func WithLocation(loc *time.Location) Option {
	return func(s *TaskService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTaskService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	notifier AssignmentNotifier,
	opts ...Option,
) *TaskService {
	s := &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		stats:    cache.NewNoopStatsCache(),
		location: time.Local,
		now:      time.Now,
		tracer:   otel.Tracer("childcare-tasks/services"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) Create(ctx context.Context, actor auth.Actor, req dto.CreateTaskRequest) (task *model.Task, err error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.Create")
	defer func() { endSpan(span, err) }()
	defer func() { recordMutation("create", err) }()

	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	status := req.Status
	if status == "" {
		status = constants.StatusTodo
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if err := policy.CanAssign(actor, req.AssignedToID).Err(); err != nil {
		return nil, err
	}

	assigneeID := req.AssignedToID
	if assigneeID == "" {
		assigneeID = actor.ID
	}

	task = &model.Task{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      utc(req.DueDate),
		Priority:     priority,
		Status:       status,
		AssignedToID: assigneeID,
	}

	if req.IsRecurring {
		if req.RecurringType == nil {
			return nil, apperrors.ErrRecurringTypeRequired
		}
		if !req.RecurringType.Valid() {
			return nil, apperrors.ErrInvalidRecurring
		}
		if task.DueDate == nil {
			return nil, apperrors.ErrDueDateRequired
		}

		rt := *req.RecurringType
		next := recurrence.Advance(*task.DueDate, rt)
		task.IsRecurring = true
		task.RecurringType = &rt
		task.NextOccurrence = &next
	}

	if err := s.ensureUser(ctx, assigneeID); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, assigneeID)
	s.notifyAssignee(ctx, assigneeID, task)

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, actor auth.Actor, req dto.UpdateTaskRequest) (task *model.Task, err error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.Update")
	defer func() { endSpan(span, err) }()
	defer func() { recordMutation("update", err) }()

	if req.ID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	task, err = s.tasks.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanModify(actor, task).Err(); err != nil {
		return nil, err
	}

	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	previousAssignee := task.AssignedToID
	if assigneeID, ok := req.AssignedToID.Get(); ok {
		if err := policy.CanAssign(actor, assigneeID).Err(); err != nil {
			return nil, err
		}
		if err := s.ensureUser(ctx, assigneeID); err != nil {
			return nil, err
		}
		task.AssignedToID = assigneeID
	}

	if title, ok := req.Title.Get(); ok {
		task.Title = title
	}
	if priority, ok := req.Priority.Get(); ok {
		task.Priority = priority
	}
	if status, ok := req.Status.Get(); ok {
		task.Status = status
	}
	task.Description = req.Description.Apply(task.Description)

	if err := applyRecurrence(task, req); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, previousAssignee, task.AssignedToID)
	if assigneeID, ok := req.AssignedToID.Get(); ok {
		s.notifyAssignee(ctx, assigneeID, task)
	}

	return task, nil
}

// applyRecurrence merges the recurring fields of req over task and keeps
// NextOccurrence consistent with the merged due date and cadence.
func applyRecurrence(task *model.Task, req dto.UpdateTaskRequest) error {
	dueDate := utc(req.DueDate.Apply(task.DueDate))
	recurringType := req.RecurringType.Apply(task.RecurringType)

	isRecurring := task.IsRecurring
	explicit, hasExplicit := req.IsRecurring.Get()
	if hasExplicit {
		isRecurring = explicit
	}

	task.DueDate = dueDate

	if !isRecurring {
		task.IsRecurring = false
		task.RecurringType = nil
		task.NextOccurrence = nil
		return nil
	}

	if recurringType == nil {
		return apperrors.ErrRecurringTypeRequired
	}
	if dueDate == nil {
		return apperrors.ErrDueDateRequired
	}

	recompute := req.DueDate.Present() ||
		req.RecurringType.Present() ||
		(hasExplicit && explicit) ||
		task.NextOccurrence == nil

	task.IsRecurring = true
	task.RecurringType = recurringType
	if recompute {
		next := recurrence.Advance(*dueDate, *recurringType)
		task.NextOccurrence = &next
	}
	return nil
}

func validateUpdate(req dto.UpdateTaskRequest) error {
	if req.Title.IsNull() {
		return apperrors.ErrTitleRequired
	}
	if title, ok := req.Title.Get(); ok {
		if err := validateTitle(title); err != nil {
			return err
		}
	}

	if req.Priority.IsNull() {
		return apperrors.ErrInvalidPriority
	}
	if p, ok := req.Priority.Get(); ok && !p.Valid() {
		return apperrors.ErrInvalidPriority
	}

	if req.Status.IsNull() {
		return apperrors.ErrInvalidStatus
	}
	if st, ok := req.Status.Get(); ok && !st.Valid() {
		return apperrors.ErrInvalidStatus
	}

	if rt, ok := req.RecurringType.Get(); ok && !rt.Valid() {
		return apperrors.ErrInvalidRecurring
	}

	if req.IsRecurring.IsNull() {
		return apperrors.BadRequest("isRecurring cannot be null")
	}
	if req.AssignedToID.IsNull() {
		return apperrors.BadRequest("assignedToId cannot be null")
	}
	if id, ok := req.AssignedToID.Get(); ok && id == "" {
		return apperrors.BadRequest("assignedToId cannot be empty")
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperrors.ErrTitleTooLong
	}
	return nil
}

// Delete soft-deletes a task; the row stays in storage with deleted set.
func (s *TaskService) Delete(ctx context.Context, actor auth.Actor, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.Delete")
	defer func() { endSpan(span, err) }()
	defer func() { recordMutation("delete", err) }()

	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanModify(actor, task).Err(); err != nil {
		return err
	}

	if err := s.tasks.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.invalidateStats(ctx, task.AssignedToID)
	return nil
}

func (s *TaskService) ensureUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// notifyAssignee runs after the task write has committed. Failures are
// logged and never undo the mutation.
func (s *TaskService) notifyAssignee(ctx context.Context, userID string, task *model.Task) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.TaskAssigned(ctx, userID, task)
	switch {
	case err == nil:
		metrics.Notifications.WithLabelValues("sent").Inc()
	case errors.Is(err, apperrors.ErrPushTokenMissing):
		metrics.Notifications.WithLabelValues("no_token").Inc()
		logger.Log.Info().Str("user_id", userID).Str("task_id", task.ID).Msg("assignee has no push token, notification skipped")
	default:
		metrics.Notifications.WithLabelValues("failed").Inc()
		logger.Log.Warn().Err(err).Str("user_id", userID).Str("task_id", task.ID).Msg("failed to send task notification")
	}
}

// invalidateStats runs after a committed write and must not fail the request.
func (s *TaskService) invalidateStats(ctx context.Context, assigneeIDs ...string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().Interface("panic", r).Msg("stats cache invalidation panicked")
		}
	}()

	if err := s.stats.Invalidate(ctx, cache.AffectedScopes(assigneeIDs...)...); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func recordMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(string(apperrors.KindOf(err)))
	}
	metrics.TaskMutations.WithLabelValues(operation, result).Inc()
}
