package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/apperr"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/middleware"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/models"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/services"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/token"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/utils"
)

// Handler adapts the account service to the HTTP surface: it parses input,
// resolves the session user once at the boundary and writes the
// {success, message, ...} envelope plus the session cookie.
type Handler struct {
	svc        *services.AccountService
	tokens     *token.Manager
	cookieName string
}

func NewHandler(svc *services.AccountService, tokens *token.Manager, cookieName string) *Handler {
	return &Handler{svc: svc, tokens: tokens, cookieName: cookieName}
}

// respondWithToken issues a fresh session cookie alongside the envelope, the
// equivalent of the auth-relevant success responses.
func (h *Handler) respondWithToken(c *fiber.Ctx, status int, message string, user *models.User) error {
	signed, exp, err := h.tokens.Sign(user.ID.Hex())
	if err != nil {
		return apperr.Internal(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    signed,
		Expires:  exp,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"user":    user,
	})
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message})
}

// POST /register (multipart: name, email, password, avatar)
func (h *Handler) Register(c *fiber.Ctx) error {
	req := models.RegisterRequest{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	var upload *services.AvatarUpload
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		if err := utils.ValidateAvatarHeader(fh); err != nil {
			return apperr.Validation(err.Error())
		}
		data, err := utils.ReadMultipartFile(fh)
		if err != nil {
			return apperr.Internal(err)
		}
		upload = &services.AvatarUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	user, message, err := h.svc.Register(c.Context(), req, upload)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, fiber.StatusCreated, message, user)
}

// POST /verify
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req models.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	user, message, err := h.svc.Verify(c.Context(), middleware.UserID(c), req.OTP)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, fiber.StatusOK, message, user)
}

// POST /resend-verification
func (h *Handler) ResendVerification(c *fiber.Ctx) error {
	message, err := h.svc.ResendVerification(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// POST /login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	user, message, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, fiber.StatusOK, message, user)
}

// GET /logout clears the cookie by expiring it. No store interaction.
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return respond(c, fiber.StatusOK, "Logged out successfully")
}

// POST /new-task
func (h *Handler) AddTask(c *fiber.Ctx) error {
	var req models.AddTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	message, err := h.svc.AddTask(c.Context(), middleware.UserID(c), req.Title, req.Description)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// DELETE /task/:taskId
func (h *Handler) RemoveTask(c *fiber.Ctx) error {
	taskID, err := primitive.ObjectIDFromHex(c.Params("taskId"))
	if err != nil {
		return apperr.Validation("Invalid task id")
	}

	message, err := h.svc.RemoveTask(c.Context(), middleware.UserID(c), taskID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// GET /task/:taskId toggles completion.
func (h *Handler) ToggleTask(c *fiber.Ctx) error {
	taskID, err := primitive.ObjectIDFromHex(c.Params("taskId"))
	if err != nil {
		return apperr.Validation("Invalid task id")
	}

	message, err := h.svc.ToggleTask(c.Context(), middleware.UserID(c), taskID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// GET /me
func (h *Handler) GetMyProfile(c *fiber.Ctx) error {
	user, message, err := h.svc.GetMyProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return h.respondWithToken(c, fiber.StatusCreated, message, user)
}

// PUT /update-profile (multipart: name?, avatar?)
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	name := c.FormValue("name")

	var upload *services.AvatarUpload
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		if err := utils.ValidateAvatarHeader(fh); err != nil {
			return apperr.Validation(err.Error())
		}
		data, err := utils.ReadMultipartFile(fh)
		if err != nil {
			return apperr.Internal(err)
		}
		upload = &services.AvatarUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	message, err := h.svc.UpdateProfile(c.Context(), middleware.UserID(c), name, upload)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// PUT /update-password
func (h *Handler) UpdatePassword(c *fiber.Ctx) error {
	var req models.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	message, err := h.svc.UpdatePassword(c.Context(), middleware.UserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// POST /forget-password
func (h *Handler) ForgetPassword(c *fiber.Ctx) error {
	var req models.ForgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	message, err := h.svc.ForgetPassword(c.Context(), req.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}

// PUT /reset-password
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	message, err := h.svc.ResetPassword(c.Context(), req.OTP, req.NewPassword)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message)
}
