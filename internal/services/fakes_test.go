package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/models"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with the same observable
// semantics as the Mongo implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Tasks = append([]models.Task(nil), u.Tasks...)
	if u.OTP != nil {
		v := *u.OTP
		c.OTP = &v
	}
	if u.OTPExpiry != nil {
		v := *u.OTPExpiry
		c.OTPExpiry = &v
	}
	if u.ResetPasswordOTP != nil {
		v := *u.ResetPasswordOTP
		c.ResetPasswordOTP = &v
	}
	if u.ResetPasswordOTPExpiry != nil {
		v := *u.ResetPasswordOTPExpiry
		c.ResetPasswordOTPExpiry = &v
	}
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Tasks == nil {
		u.Tasks = []models.Task{}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) get(id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return nil, err
	}
	c := cloneUser(u)
	c.Password = ""
	return c, nil
}

func (r *fakeUserRepo) FindByIDWithPassword(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) findByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.findByEmail(email)
	if err != nil {
		return nil, err
	}
	c := cloneUser(u)
	c.Password = ""
	return c, nil
}

func (r *fakeUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.findByEmail(email)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindByResetOTP(_ context.Context, otp int64, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordOTP != nil && *u.ResetPasswordOTP == otp &&
			u.ResetPasswordOTPExpiry != nil && u.ResetPasswordOTPExpiry.After(now) {
			c := cloneUser(u)
			c.Password = ""
			return c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Verified = true
	u.OTP = nil
	u.OTPExpiry = nil
	return nil
}

func (r *fakeUserRepo) SetOTP(_ context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.OTP = &otp
	u.OTPExpiry = &expiry
	return nil
}

func (r *fakeUserRepo) SetResetOTP(_ context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.ResetPasswordOTP = &otp
	u.ResetPasswordOTPExpiry = &expiry
	return nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ResetPasswordOTP = nil
	u.ResetPasswordOTPExpiry = nil
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, name string, avatar *models.Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	if name != "" {
		u.Name = name
	}
	if avatar != nil {
		u.Avatar = *avatar
	}
	return nil
}

func (r *fakeUserRepo) AddTask(_ context.Context, id primitive.ObjectID, task models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Tasks = append(u.Tasks, task)
	return nil
}

func (r *fakeUserRepo) RemoveTask(_ context.Context, id, taskID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	kept := u.Tasks[:0]
	for _, t := range u.Tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	u.Tasks = kept
	return nil
}

func (r *fakeUserRepo) ToggleTask(_ context.Context, id, taskID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	for i := range u.Tasks {
		if u.Tasks[i].ID == taskID {
			u.Tasks[i].Completed = !u.Tasks[i].Completed
			return nil
		}
	}
	return repository.ErrTaskNotFound
}

// fakeMediaStore records calls. Set failEmpty to simulate a store that
// answers without an id/url pair.
type fakeMediaStore struct {
	mu        sync.Mutex
	uploads   int
	deletes   []string
	failEmpty bool
	uploadErr error
}

func (s *fakeMediaStore) UploadAvatar(_ context.Context, filename, _ string, _ []byte) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	if s.failEmpty {
		return "", "", nil
	}
	s.uploads++
	id := fmt.Sprintf("user-avatars/%d_%s", s.uploads, filename)
	return id, "https://bucket.s3.us-east-1.amazonaws.com/" + id, nil
}

func (s *fakeMediaStore) DeleteAvatar(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, publicID)
	return nil
}

// fakeMailer records every message.
type fakeMailer struct {
	mu       sync.Mutex
	messages []sentMail
	err      error
}

type sentMail struct {
	To, Subject, Body string
}

func (m *fakeMailer) SendMail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeLimiter allows everything unless told otherwise.
type fakeLimiter struct {
	deny bool
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) {
	return !l.deny, nil
}
