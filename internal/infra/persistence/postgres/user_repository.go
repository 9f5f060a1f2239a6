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

// userRepository implements the domain UserRepository interface using GORM.
type userRepository struct {
	client *Client
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{client: client}
}

// FindByUsername retrieves a single user by username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	db, err := repo.client.DB()
	if err != nil {
		return nil, err
	}

	var userM model.UserModel
	if err := db.WithContext(ctx).Where("username = ?", username).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		if isConnectionError(err) {
			return nil, domainerrors.ErrStoreUnavailable.WrapMessage(err.Error())
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user. A unique constraint violation on username maps
// to the duplicate-registration domain error; the usecase's pre-check makes
// this the race backstop, not the primary path.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	db, err := repo.client.DB()
	if err != nil {
		return err
	}

	userM := fromUserDomain(user)
	if err := db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateUsername.WrapMessage("username already exists")
		}
		if isConnectionError(err) {
			return domainerrors.ErrStoreUnavailable.WrapMessage(err.Error())
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID

	return nil
}

func toUserDomain(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.HashedPassword,
	}
}

func fromUserDomain(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		HashedPassword: u.PasswordHash,
	}
}
