package services

import (
	"context"
)

// MediaStore is the external object store holding avatar images.
type MediaStore interface {
	UploadAvatar(ctx context.Context, filename, contentType string, data []byte) (publicID, url string, err error)
	DeleteAvatar(ctx context.Context, publicID string) error
}

// Mailer delivers a plain-text message. Single attempt, awaited.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// RateLimiter caps OTP mail per key per window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AvatarUpload is an in-memory staged upload, handed straight to the media
// store with nothing written to disk.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
