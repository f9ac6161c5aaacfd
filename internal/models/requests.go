package models

// RegisterRequest carries the non-file fields of the multipart register form.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// VerifyRequest carries the emailed verification code. Zero is a legal code,
// so presence is not enforced here; a wrong value simply fails the compare.
type VerifyRequest struct {
	OTP int64 `json:"otp" validate:"gte=0,lt=1000000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AddTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	OTP         int64  `json:"otp" validate:"gte=0,lt=1000000"`
	NewPassword string `json:"newPassword" validate:"required"`
}
