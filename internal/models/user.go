package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Avatar is the stored reference to an uploaded profile image.
type Avatar struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// Task is a to-do item embedded in its owning user document.
type Task struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// User represents an account. Password holds the bcrypt hash and is excluded
// from default reads by projection; OTP pairs are either both set or both nil.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Avatar   Avatar             `bson:"avatar" json:"avatar"`
	Verified bool               `bson:"verified" json:"verified"`

	OTP       *int64     `bson:"otp" json:"-"`
	OTPExpiry *time.Time `bson:"otp_expiry" json:"-"`

	ResetPasswordOTP       *int64     `bson:"reset_password_otp" json:"-"`
	ResetPasswordOTPExpiry *time.Time `bson:"reset_password_otp_expiry" json:"-"`

	Tasks []Task `bson:"tasks" json:"tasks"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TaskByID returns the embedded task with the given id, or nil.
func (u *User) TaskByID(id primitive.ObjectID) *Task {
	for i := range u.Tasks {
		if u.Tasks[i].ID == id {
			return &u.Tasks[i]
		}
	}
	return nil
}
