package repositories

import (
	"context"

	"github.com/smart-result/records-service/internal/models"
)

// UserRepository owns the identity records. Create persists the nested
// Student/Lecturer profile in the same transaction when one is attached.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	GetByMatricNo(ctx context.Context, matricNo string) (*models.Student, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type LecturerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Lecturer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error)
	GetByStaffID(ctx context.Context, staffID string) (*models.Lecturer, error)
	List(ctx context.Context, filters LecturerFilters) ([]*models.Lecturer, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
