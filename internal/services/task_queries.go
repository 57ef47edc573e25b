package services

import (
	"context"
	"sort"
	"time"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	"childcare-tasks.com/childcare-tasks/internal/cache"
	"childcare-tasks.com/childcare-tasks/internal/constants"
	dto "childcare-tasks.com/childcare-tasks/internal/data_models"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	"childcare-tasks.com/childcare-tasks/internal/logger"
	"childcare-tasks.com/childcare-tasks/internal/metrics"
	"childcare-tasks.com/childcare-tasks/internal/policy"
	repository "childcare-tasks.com/childcare-tasks/internal/repositories"
)

const completedWindow = 7 * 24 * time.Hour

// GetAll returns one page of live tasks visible to actor. The returned
// NextCursor is the id of the last task on the page and is set only when
// more tasks follow it.
//
// Pages are stable only while (dueDate, id) of the listed tasks does not
// change between fetches; a concurrent due date edit may skip or repeat a task.
func (s *TaskService) GetAll(ctx context.Context, actor auth.Actor, req dto.ListTasksRequest) (page *dto.TaskPage, err error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.GetAll")
	defer func() { endSpan(span, err) }()

	limit := DefaultPageLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 1 || limit > MaxPageLimit {
		return nil, apperrors.ErrInvalidLimit
	}

	sortOrder := req.SortOrder
	if sortOrder == "" {
		sortOrder = constants.SortDesc
	}
	if sortOrder != constants.SortAsc && sortOrder != constants.SortDesc {
		return nil, apperrors.ErrInvalidSortOrder
	}

	if req.Status != "" && !req.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	filter := repository.TaskListFilter{
		AssignedToID: policy.ViewScope(actor, req.AssignedToID),
		Status:       req.Status,
		SortOrder:    sortOrder,
		Take:         limit + 1,
	}

	if req.Cursor != "" {
		after, err := s.tasks.FindCursor(ctx, req.Cursor)
		if err != nil {
			return nil, err
		}
		filter.After = after
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page = &dto.TaskPage{Tasks: tasks}
	if len(tasks) > limit {
		page.Tasks = tasks[:limit]
		next := page.Tasks[limit-1].ID
		page.NextCursor = &next
	}
	return page, nil
}

// GetStats counts live tasks by status and buckets the last seven days of
// completions by calendar date. Both are limited to actor's own tasks unless
// actor is an admin. Statuses without tasks and days without completions are
// omitted.
func (s *TaskService) GetStats(ctx context.Context, actor auth.Actor) (stats *dto.TaskStats, err error) {
	ctx, span := s.tracer.Start(ctx, "TaskService.GetStats")
	defer func() { endSpan(span, err) }()

	assigneeID := policy.ViewScope(actor, "")
	scope := cache.ScopeFor(assigneeID)

	cached, generation, ok, err := s.stats.Get(ctx, scope)
	switch {
	case err != nil:
		metrics.StatsCacheLookups.WithLabelValues("error").Inc()
		logger.Log.Warn().Err(err).Str("scope", scope).Msg("stats cache lookup failed")
	case ok:
		metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
	}

	counts, err := s.tasks.CountByStatus(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stamps, err := s.tasks.CompletedBetween(ctx, assigneeID, now.Add(-completedWindow).UTC(), now.UTC())
	if err != nil {
		return nil, err
	}

	stats = &dto.TaskStats{
		StatusCounts:      make(map[constants.TaskStatus]int64, len(counts)),
		CompletedOverTime: bucketByDate(stamps, s.location),
	}
	for _, c := range counts {
		stats.StatusCounts[c.Status] = c.Count
	}

	if err := s.stats.Set(ctx, scope, generation, stats); err != nil {
		logger.Log.Warn().Err(err).Str("scope", scope).Msg("failed to cache stats")
	}

	return stats, nil
}

func bucketByDate(stamps []time.Time, loc *time.Location) []dto.DailyCount {
	counts := make(map[string]int64)
	for _, ts := range stamps {
		counts[ts.In(loc).Format(time.DateOnly)]++
	}

	series := make([]dto.DailyCount, 0, len(counts))
	for date, count := range counts {
		series = append(series, dto.DailyCount{Date: date, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}
