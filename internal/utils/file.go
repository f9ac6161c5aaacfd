package utils

import (
	"errors"
	"io"
	"mime/multipart"
)

const maxAvatarSize = 5 * 1024 * 1024

var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ValidateAvatarHeader rejects empty, oversized or non-image uploads before
// any bytes are read.
func ValidateAvatarHeader(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > maxAvatarSize {
		return errors.New("file size not allowed")
	}
	if !allowedAvatarTypes[h.Header.Get("Content-Type")] {
		return errors.New("invalid content type")
	}
	return nil
}

// ReadMultipartFile loads the whole upload into memory. Avatars are small; the
// buffered bytes go straight to the media store with no temp files on disk.
func ReadMultipartFile(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, h.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}
