package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository is the persistence boundary for user documents. Reads omit
// the password hash unless the method name says otherwise. Task operations
// act on a single embedded element so concurrent mutations of the same user
// never overwrite each other's tasks.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDWithPassword(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
	FindByResetOTP(ctx context.Context, otp int64, now time.Time) (*models.User, error)

	SetVerified(ctx context.Context, id primitive.ObjectID) error
	SetOTP(ctx context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error
	SetResetOTP(ctx context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, avatar *models.Avatar) error

	AddTask(ctx context.Context, id primitive.ObjectID, task models.Task) error
	RemoveTask(ctx context.Context, id, taskID primitive.ObjectID) error
	ToggleTask(ctx context.Context, id, taskID primitive.ObjectID) error
}
