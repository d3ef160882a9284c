package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Description string
	Completed   bool
}

// TaskService provides task operations. Every method is scoped to ownerID:
// a task owned by someone else is reported as store.ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, patch Patch) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	tx     store.TxManager
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, tx store.TxManager, log *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, nilDependency("tasks")
	}
	if tx == nil {
		return nil, nilDependency("tx")
	}
	if log == nil {
		log = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		tx:     tx,
		logger: log.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	in CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("owner_id", ownerID.String()))

	task, err := domain.NewTask(ownerID, in.Description, in.Completed)
	if err != nil {
		log.Debug("rejected task", redact.Attr(err))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task", redact.Attr(err))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	if opts.Limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Message: "limit must be a non-negative integer"}
	}
	if opts.Skip < 0 {
		return nil, &domain.ValidationError{Field: "skip", Message: "skip must be a non-negative integer"}
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			redact.Attr(err),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		s.logLookupError(ctx, "failed to get task", err, ownerID, taskID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch Patch,
) (*domain.Task, error) {
	var upd domain.TaskUpdate
	if err := patch.decodeInto(domain.TaskMutableFields, &upd); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetForOwner(ctx, taskID, ownerID)
		if err != nil {
			return err
		}
		if err := task.ApplyUpdate(upd); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		s.logLookupError(ctx, "failed to update task", err, ownerID, taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.Any("fields", patch.Fields()))
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.DeleteForOwner(ctx, taskID, ownerID)
	if err != nil {
		s.logLookupError(ctx, "failed to delete task", err, ownerID, taskID)
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.String("task_id", taskID.String()))
	return task, nil
}

// logLookupError logs expected outcomes (not found, invalid input) at debug
// and everything else at error.
func (s *taskServiceImpl) logLookupError(ctx context.Context, msg string, err error, ownerID, taskID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	attrs := []any{
		redact.Attr(err),
		slog.String("owner_id", ownerID.String()),
		slog.String("task_id", taskID.String()),
	}
	if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) {
		log.Debug(msg, attrs...)
		return
	}
	log.Error(msg, attrs...)
}
