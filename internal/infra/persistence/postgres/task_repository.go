package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"
)

// taskRepository implements the domain TaskRepository interface using GORM.
type taskRepository struct {
	client *Client
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(client *Client) repository.TaskRepository {
	return &taskRepository{client: client}
}

// Create persists a new task and fills in the generated id.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	db, err := repo.client.DB()
	if err != nil {
		return err
	}

	taskM := fromTaskDomain(task)
	if err := db.WithContext(ctx).Create(taskM).Error; err != nil {
		return repo.translate(err, "failed to create task")
	}

	task.ID = taskM.ID

	return nil
}

// FindByID retrieves a task by id regardless of owner.
func (repo *taskRepository) FindByID(ctx context.Context, id int64) (*entity.Task, error) {
	db, err := repo.client.DB()
	if err != nil {
		return nil, err
	}

	var taskM model.TaskModel
	if err := db.WithContext(ctx).First(&taskM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, repo.translate(err, "failed to find task by id")
	}

	return toTaskDomain(&taskM), nil
}

// FindByOwner lists all tasks owned by the given principal.
func (repo *taskRepository) FindByOwner(ctx context.Context, owner string) ([]*entity.Task, error) {
	db, err := repo.client.DB()
	if err != nil {
		return nil, err
	}

	var taskMs []model.TaskModel
	if err := db.WithContext(ctx).Where("owner = ?", owner).Order("id").Find(&taskMs).Error; err != nil {
		return nil, repo.translate(err, "failed to list tasks by owner")
	}

	tasks := make([]*entity.Task, 0, len(taskMs))
	for i := range taskMs {
		tasks = append(tasks, toTaskDomain(&taskMs[i]))
	}

	return tasks, nil
}

// Update persists changes to an existing task. Save writes all columns,
// including completed=false, which Updates would skip as a zero value.
func (repo *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	db, err := repo.client.DB()
	if err != nil {
		return err
	}

	taskM := fromTaskDomain(task)
	if err := db.WithContext(ctx).Save(taskM).Error; err != nil {
		return repo.translate(err, "failed to update task")
	}

	return nil
}

// Delete removes a task by id.
func (repo *taskRepository) Delete(ctx context.Context, id int64) error {
	db, err := repo.client.DB()
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).Delete(&model.TaskModel{}, id)
	if result.Error != nil {
		return repo.translate(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

func (repo *taskRepository) translate(err error, details string) error {
	if isConnectionError(err) {
		return domainerrors.ErrStoreUnavailable.WrapMessage(err.Error())
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func toTaskDomain(m *model.TaskModel) *entity.Task {
	return &entity.Task{
		ID:        m.ID,
		Title:     m.Title,
		Completed: m.Completed,
		Owner:     m.Owner,
	}
}

func fromTaskDomain(t *entity.Task) *model.TaskModel {
	return &model.TaskModel{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Owner:     t.Owner,
	}
}
