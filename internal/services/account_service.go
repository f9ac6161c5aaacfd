package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/apperr"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/models"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/repository"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/utils"
)

// AccountService implements the account core: registration with email OTP
// verification, login, profile and avatar management, password reset and the
// per-user task list. Every caller-facing failure is an *apperr.Error.
type AccountService struct {
	repo    repository.UserRepository
	store   MediaStore
	mail    Mailer
	limiter RateLimiter
	logger  *zap.SugaredLogger

	otpTTL      time.Duration
	resetOTPTTL time.Duration
}

func NewAccountService(
	repo repository.UserRepository,
	store MediaStore,
	mail Mailer,
	limiter RateLimiter,
	logger *zap.SugaredLogger,
	otpTTL, resetOTPTTL time.Duration,
) *AccountService {
	return &AccountService{
		repo:        repo,
		store:       store,
		mail:        mail,
		limiter:     limiter,
		logger:      logger,
		otpTTL:      otpTTL,
		resetOTPTTL: resetOTPTTL,
	}
}

// Register creates an unverified account, uploads the avatar and mails the
// verification code. The caller issues a session immediately; verification
// happens from inside the logged-in profile.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest, avatar *AvatarUpload) (*models.User, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || avatar == nil || len(avatar.Data) == 0 {
		return nil, "", apperr.Validation("All fields name email password and avatar are required")
	}
	if ve := utils.ValidateStruct(req); len(ve) > 0 {
		return nil, "", apperr.Validation(ve[0].Message)
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", apperr.Conflict("User already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", apperr.Internal(err)
	}

	otp := utils.GenerateOTP()

	publicID, url, err := s.store.UploadAvatar(ctx, avatar.Filename, avatar.ContentType, avatar.Data)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if publicID == "" || url == "" {
		return nil, "", apperr.Upload("Error While Uploading File")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	expiry := time.Now().Add(s.otpTTL)
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Avatar:    models.Avatar{PublicID: publicID, URL: url},
		Verified:  false,
		OTP:       &otp,
		OTPExpiry: &expiry,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", apperr.Conflict("User already exists")
		}
		return nil, "", apperr.Internal(err)
	}

	if err := s.mail.SendMail(ctx, req.Email, "Verify your account", fmt.Sprintf("Your OTP is %06d", otp)); err != nil {
		return nil, "", apperr.Internal(err)
	}
	s.logger.Infow("user registered", "email", req.Email)

	user.Password = ""
	return user, "OTP sent to your email, please verify your account from your profile", nil
}

// Verify compares the submitted code against the stored one and promotes the
// account. Verified never transitions back to false.
func (s *AccountService) Verify(ctx context.Context, userID primitive.ObjectID, otp int64) (*models.User, string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", s.mapUserErr(err)
	}

	if user.OTP == nil || user.OTPExpiry == nil || *user.OTP != otp || user.OTPExpiry.Before(time.Now()) {
		return nil, "", apperr.Validation("Invalid OTP or has been Expired")
	}

	if err := s.repo.SetVerified(ctx, user.ID); err != nil {
		return nil, "", s.mapUserErr(err)
	}
	user.Verified = true
	user.OTP = nil
	user.OTPExpiry = nil
	return user, "Your Account Verified Successfully", nil
}

// ResendVerification regenerates the code for a still-unverified account and
// mails it again. Rate limited per address.
func (s *AccountService) ResendVerification(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", s.mapUserErr(err)
	}
	if user.Verified {
		return "", apperr.Validation("Account already verified")
	}

	if err := s.allow(ctx, user.Email); err != nil {
		return "", err
	}

	otp := utils.GenerateOTP()
	if err := s.repo.SetOTP(ctx, user.ID, otp, time.Now().Add(s.otpTTL)); err != nil {
		return "", s.mapUserErr(err)
	}
	if err := s.mail.SendMail(ctx, user.Email, "Verify your account", fmt.Sprintf("Your OTP is %06d", otp)); err != nil {
		return "", apperr.Internal(err)
	}
	return "OTP resent to your email", nil
}

// Login checks the credentials and returns the user for session issuance.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Validation("Please enter all fields")
	}

	user, err := s.repo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", apperr.NotFound("Invalid Email Address")
		}
		return nil, "", apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Auth("Incorrect Password")
	}

	user.Password = ""
	return user, "Welcome back " + strings.ToUpper(user.Name), nil
}

// AddTask appends a fresh task to the session user's list.
func (s *AccountService) AddTask(ctx context.Context, userID primitive.ObjectID, title, description string) (string, error) {
	if title == "" || description == "" {
		return "", apperr.Validation("Please enter title and description")
	}

	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.AddTask(ctx, userID, task); err != nil {
		return "", s.mapUserErr(err)
	}
	return "Task added successfully", nil
}

// RemoveTask deletes the matching task. A non-matching id is a silent no-op.
func (s *AccountService) RemoveTask(ctx context.Context, userID, taskID primitive.ObjectID) (string, error) {
	if err := s.repo.RemoveTask(ctx, userID, taskID); err != nil {
		return "", s.mapUserErr(err)
	}
	return "Task removed successfully", nil
}

// ToggleTask flips completion on the matching task.
func (s *AccountService) ToggleTask(ctx context.Context, userID, taskID primitive.ObjectID) (string, error) {
	if err := s.repo.ToggleTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return "", apperr.NotFound("Task not found")
		}
		return "", s.mapUserErr(err)
	}
	return "Task Updated successfully", nil
}

// GetMyProfile resolves the session user.
func (s *AccountService) GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", s.mapUserErr(err)
	}
	return user, fmt.Sprintf("Welcome back %s", user.Name), nil
}

// UpdateProfile changes the display name and/or replaces the avatar. The old
// avatar is removed from the media store before the new one is uploaded.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, avatar *AvatarUpload) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", s.mapUserErr(err)
	}

	var newAvatar *models.Avatar
	if avatar != nil && len(avatar.Data) > 0 {
		if err := s.store.DeleteAvatar(ctx, user.Avatar.PublicID); err != nil {
			return "", apperr.Internal(err)
		}
		publicID, url, err := s.store.UploadAvatar(ctx, avatar.Filename, avatar.ContentType, avatar.Data)
		if err != nil {
			return "", apperr.Internal(err)
		}
		if publicID == "" || url == "" {
			return "", apperr.Upload("Error While Uploading File")
		}
		newAvatar = &models.Avatar{PublicID: publicID, URL: url}
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, name, newAvatar); err != nil {
		return "", s.mapUserErr(err)
	}
	return "Profile Updated successfully", nil
}

// UpdatePassword replaces the credential after checking the old one.
func (s *AccountService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) (string, error) {
	if oldPassword == "" || newPassword == "" {
		return "", apperr.Validation("Please enter all fields")
	}

	user, err := s.repo.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return "", s.mapUserErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return "", apperr.Auth("Invalid Old Password Please Try Again")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if err := s.repo.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return "", s.mapUserErr(err)
	}
	return "Password Updated successfully", nil
}

// ForgetPassword mails a reset code with a fixed expiry window. Rate limited
// per address.
func (s *AccountService) ForgetPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apperr.Validation("Please enter email")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.NotFound("Invalid Email")
		}
		return "", apperr.Internal(err)
	}

	if err := s.allow(ctx, email); err != nil {
		return "", err
	}

	otp := utils.GenerateOTP()
	if err := s.repo.SetResetOTP(ctx, user.ID, otp, time.Now().Add(s.resetOTPTTL)); err != nil {
		return "", s.mapUserErr(err)
	}

	body := fmt.Sprintf("Your OTP for reset your password %06d. If you did not request for this, please ignore this email.", otp)
	if err := s.mail.SendMail(ctx, email, "Request for Reset Password", body); err != nil {
		return "", apperr.Internal(err)
	}
	s.logger.Infow("password reset OTP sent", "email", email)
	return fmt.Sprintf("OTP sent to this %s", email), nil
}

// ResetPassword matches an unexpired reset code, replaces the credential and
// clears the reset pair so the code is single use.
func (s *AccountService) ResetPassword(ctx context.Context, otp int64, newPassword string) (string, error) {
	if newPassword == "" {
		return "", apperr.Validation("Please enter new password")
	}

	user, err := s.repo.FindByResetOTP(ctx, otp, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.Validation("Otp Invalid or has been Expired")
		}
		return "", apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if err := s.repo.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return "", s.mapUserErr(err)
	}
	return "Password Changed Successfully Now You Can Login", nil
}

func (s *AccountService) allow(ctx context.Context, key string) error {
	ok, err := s.limiter.Allow(ctx, key)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.RateLimited("Too many OTP requests, please try again later")
	}
	return nil
}

func (s *AccountService) mapUserErr(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("User not found")
	}
	return apperr.Internal(err)
}
