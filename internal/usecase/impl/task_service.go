package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager repository.TransactionManager
	todoRepo  repository.TodoRepository
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TodoRepo  repository.TodoRepository
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		txManager: params.TxManager,
		todoRepo:  params.TodoRepo,
		logger:    params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create inserts a new todo owned by the given user.
func (srv *taskService) Create(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateTodoInput) (*usecase.TodoOutput, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("title is required")
	}

	todo := &entity.Todo{
		OwnerID: ownerID,
		Title:   strings.TrimSpace(input.Title),
		Done:    false,
	}

	if err := srv.todoRepo.Create(ctx, todo); err != nil {
		srv.log(ctx).Warn("Failed to create todo", slog.Any("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create todo")
	}

	srv.log(ctx).Debug("Todo created", slog.Any("todoID", todo.ID), slog.Any("ownerID", ownerID))

	return &usecase.TodoOutput{Todo: usecase.NewTodoView(todo)}, nil
}

// List returns the caller's todos ordered by creation time.
func (srv *taskService) List(ctx context.Context, ownerID uuid.UUID) (*usecase.TodoListOutput, error) {
	todos, err := srv.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list todos")
	}

	return usecase.NewTodoListOutput(todos), nil
}

// Update applies a partial update to one of the caller's todos. The existence
// check, the ownership check and the write happen in one transaction.
func (srv *taskService) Update(ctx context.Context, callerID uuid.UUID, input *usecase.UpdateTodoInput) (*usecase.TodoOutput, error) {
	if input == nil || input.ID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("todo id is required")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("title must not be blank")
	}

	var updated *entity.Todo

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		todoRepo := repoFactory.TodoRepo()

		todo, err := srv.fetchOwned(ctx, todoRepo, input.ID, callerID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			todo.Title = strings.TrimSpace(*input.Title)
		}
		if input.Done != nil {
			todo.Done = *input.Done
		}

		if err := todoRepo.Update(ctx, todo); err != nil {
			return errors.WithStack(err)
		}
		updated = todo

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to update todo", slog.Any("todoID", input.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute todo update transaction")
	}

	return &usecase.TodoOutput{Todo: usecase.NewTodoView(updated)}, nil
}

// Delete removes one of the caller's todos and returns the remaining list,
// so the client can refresh its view without a second round trip.
func (srv *taskService) Delete(ctx context.Context, callerID uuid.UUID, todoID uuid.UUID) (*usecase.TodoListOutput, error) {
	if todoID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("todo id is required")
	}

	var remaining []*entity.Todo

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		todoRepo := repoFactory.TodoRepo()

		if _, err := srv.fetchOwned(ctx, todoRepo, todoID, callerID); err != nil {
			return err
		}

		if err := todoRepo.Delete(ctx, todoID); err != nil {
			return errors.WithStack(err)
		}

		todos, err := todoRepo.ListByOwner(ctx, callerID)
		if err != nil {
			return errors.Wrap(err, "failed to list remaining todos")
		}
		remaining = todos

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to delete todo", slog.Any("todoID", todoID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute todo delete transaction")
	}

	return usecase.NewTodoListOutput(remaining), nil
}

// fetchOwned loads a todo and verifies the caller owns it. A todo that does
// not exist maps to a not-found error, a todo owned by someone else to a
// forbidden error, so the two cases stay distinguishable to the client.
func (srv *taskService) fetchOwned(ctx context.Context, todoRepo repository.TodoRepository, todoID, callerID uuid.UUID) (*entity.Todo, error) {
	todo, err := todoRepo.FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, domainerrors.ErrTodoNotFound.WrapMessage("todo does not exist")
		}

		return nil, errors.Wrap(err, "failed to find todo by id")
	}

	if !todo.OwnedBy(callerID) {
		return nil, domainerrors.ErrTodoOwnership.WrapMessage("todo belongs to another user")
	}

	return todo, nil
}
