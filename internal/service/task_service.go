package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskerp-api/internal/audit"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/domain/access"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title        string
	Description  *string
	DueDate      *time.Time
	AssignedToID int64
}

// TaskService provides the task lifecycle operations. Every method takes the
// acting user and enforces the authorization rules for that actor.
type TaskService interface {
	// CreateTask creates a PENDING task. Members may only assign it to themselves.
	CreateTask(ctx context.Context, input CreateTaskInput, actor domain.Actor) (*domain.Task, error)

	// ListTasks returns all tasks for elevated actors and the actor's own
	// tasks for members.
	ListTasks(ctx context.Context, actor domain.Actor) ([]*domain.Task, error)

	// GetTask returns a task, or a not-found error if it is absent or hidden.
	GetTask(ctx context.Context, id int64, actor domain.Actor) (*domain.Task, error)

	// UpdateTask applies a partial update, including status changes.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch, actor domain.Actor) (*domain.Task, error)

	// UpdateTaskStatus parses status and applies a status-only update.
	UpdateTaskStatus(ctx context.Context, id int64, status string, actor domain.Actor) (*domain.Task, error)

	// AssignTask moves a task to another user. Elevated actors only.
	AssignTask(ctx context.Context, id, assigneeID int64, actor domain.Actor) (*domain.Task, error)

	// DeleteTask removes a task permanently. Elevated actors only.
	DeleteTask(ctx context.Context, id int64, actor domain.Actor) error
}

// Audit payloads.
type (
	taskCreatedDetails struct {
		TaskID     int64  `json:"taskId"`
		Title      string `json:"title"`
		AssignedTo string `json:"assignedTo"`
	}
	taskUpdatedDetails struct {
		TaskID  int64            `json:"taskId"`
		Updates domain.TaskPatch `json:"updates"`
	}
	taskAssignedDetails struct {
		TaskID     int64  `json:"taskId"`
		AssignedTo string `json:"assignedTo"`
	}
	taskDeletedDetails struct {
		TaskID int64  `json:"taskId"`
		Title  string `json:"title"`
	}
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	tx     store.Transactor
	audit  audit.Sink
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	tx store.Transactor,
	sink audit.Sink,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if sink == nil {
		sink = audit.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		tx:     tx,
		audit:  sink,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	input CreateTaskInput,
	actor domain.Actor,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Description, input.DueDate, input.AssignedToID, actor.ID)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	decision := access.Decide(access.Request{
		Actor:      actor,
		Operation:  access.OpCreateTask,
		AssigneeID: input.AssignedToID,
	})
	if !decision.Allowed() {
		log.Debug("task creation denied",
			slog.Int64("user_id", actor.ID),
			slog.String("reason", decision.Reason))
		return nil, NewTaskServiceError("create_task", decision.Reason, decision.Err())
	}

	assignee, err := s.users.GetByID(ctx, input.AssignedToID)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "assigned user not found", translateStoreError(err))
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", actor.ID))
		return nil, NewTaskServiceError("create_task", "failed to save task", translateStoreError(err))
	}
	task.AssignedTo = assignee

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("assigned_to_id", task.AssignedToID),
		slog.Int64("user_id", actor.ID))

	s.record(ctx, actor.ID, domain.ActionTaskCreated, taskCreatedDetails{
		TaskID:     task.ID,
		Title:      task.Title,
		AssignedTo: assignee.Email,
	})
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
	var (
		tasks []*domain.Task
		err   error
	)
	if assigneeID, restricted := access.ListScope(actor); restricted {
		tasks, err = s.tasks.ListByAssignee(ctx, assigneeID)
	} else {
		tasks, err = s.tasks.List(ctx)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", actor.ID))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", translateStoreError(err))
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64, actor domain.Actor) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "task not found", translateStoreError(err))
	}

	if !access.CanView(actor, task) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("hiding task from non-assignee",
			slog.Int64("task_id", id),
			slog.Int64("user_id", actor.ID))
		return nil, NewTaskServiceError("get_task", "task not found", domain.ErrNotFound)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
	actor domain.Actor,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, NewTaskServiceError("update_task", "invalid update", err)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.TxStores) error {
		task, err := tx.Tasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "task not found", translateStoreError(err))
		}

		decision := access.Decide(access.Request{
			Actor:     actor,
			Operation: access.OpUpdateTask,
			Task:      task,
			NewStatus: patch.Status,
		})
		if !decision.Allowed() {
			log.Debug("task update denied",
				slog.Int64("task_id", id),
				slog.Int64("user_id", actor.ID),
				slog.String("effect", decision.Effect.String()),
				slog.String("reason", decision.Reason))
			return NewTaskServiceError("update_task", decision.Reason, decision.Err())
		}

		from := task.Status
		patch.Apply(task)
		if err := tx.Tasks.Update(ctx, task); err != nil {
			log.Error("failed to save task",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
			return NewTaskServiceError("update_task", "failed to save task", translateStoreError(err))
		}

		if from != task.Status {
			log.Info("task status changed",
				slog.Int64("task_id", id),
				slog.String("from", string(from)),
				slog.String("to", string(task.Status)),
				slog.Int64("user_id", actor.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor.ID, domain.ActionTaskUpdated, taskUpdatedDetails{TaskID: id, Updates: patch})
	return s.reload(ctx, "update_task", id)
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	id int64,
	status string,
	actor domain.Actor,
) (*domain.Task, error) {
	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, NewTaskServiceError("update_task_status", "invalid status", err)
	}
	return s.UpdateTask(ctx, id, domain.TaskPatch{Status: &parsed}, actor)
}

// AssignTask implements TaskService.AssignTask
func (s *taskServiceImpl) AssignTask(
	ctx context.Context,
	id, assigneeID int64,
	actor domain.Actor,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if assigneeID <= 0 {
		return nil, NewTaskServiceError("assign_task", "invalid assignee",
			domain.NewValidationError("assigned_to_id", "must be a positive integer", domain.ErrInvalidAssignee))
	}

	if d := access.Decide(access.Request{Actor: actor, Operation: access.OpAssignTask}); !d.Allowed() {
		return nil, NewTaskServiceError("assign_task", d.Reason, d.Err())
	}

	var assignee *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.TxStores) error {
		task, err := tx.Tasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return NewTaskServiceError("assign_task", "task not found", translateStoreError(err))
		}

		decision := access.Decide(access.Request{Actor: actor, Operation: access.OpAssignTask, Task: task})
		if !decision.Allowed() {
			return NewTaskServiceError("assign_task", decision.Reason, decision.Err())
		}

		assignee, err = tx.Users.GetByID(ctx, assigneeID)
		if err != nil {
			return NewTaskServiceError("assign_task", "assigned user not found", translateStoreError(err))
		}

		task.AssignedToID = assigneeID
		task.UpdatedAt = time.Now().UTC()
		if err := tx.Tasks.Update(ctx, task); err != nil {
			log.Error("failed to save task",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
			return NewTaskServiceError("assign_task", "failed to save task", translateStoreError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task assigned",
		slog.Int64("task_id", id),
		slog.Int64("assigned_to_id", assigneeID),
		slog.Int64("user_id", actor.ID))

	s.record(ctx, actor.ID, domain.ActionTaskAssigned, taskAssignedDetails{
		TaskID:     id,
		AssignedTo: assignee.Email,
	})
	return s.reload(ctx, "assign_task", id)
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64, actor domain.Actor) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Checked before the lookup so members cannot probe for task IDs.
	decision := access.Decide(access.Request{Actor: actor, Operation: access.OpDeleteTask})
	if !decision.Allowed() {
		return NewTaskServiceError("delete_task", decision.Reason, decision.Err())
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return NewTaskServiceError("delete_task", "task not found", translateStoreError(err))
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to delete task",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
		}
		return NewTaskServiceError("delete_task", "failed to delete task", translateStoreError(err))
	}

	log.Info("task deleted", slog.Int64("task_id", id), slog.Int64("user_id", actor.ID))
	s.record(ctx, actor.ID, domain.ActionTaskDeleted, taskDeletedDetails{TaskID: id, Title: task.Title})
	return nil
}

// reload fetches a task with its relations after a committed write.
func (s *taskServiceImpl) reload(ctx context.Context, op string, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError(op, "failed to reload task", translateStoreError(err))
	}
	return task, nil
}

// record hands an entry to the audit sink. Failures are logged, never returned.
func (s *taskServiceImpl) record(ctx context.Context, actorID int64, action domain.ActionType, details any) {
	if err := s.audit.Record(ctx, actorID, action, details); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record audit entry",
			slog.String("action_type", string(action)),
			slog.String("error", err.Error()))
	}
}
