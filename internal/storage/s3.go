package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// avatarNamespace is the fixed key prefix for all profile images.
const avatarNamespace = "user-avatars"

// S3Store keeps avatar images in an S3 bucket. The object key doubles as the
// public id referenced by the user document.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
}

func NewS3Store(ctx context.Context, region, bucket, endpoint string) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	uploader := manager.NewUploader(client)
	return &S3Store{client: client, uploader: uploader, bucket: bucket, region: region}, nil
}

// UploadAvatar stores the image and a 320px JPEG thumbnail next to it, and
// returns the object key plus the public URL.
func (s *S3Store) UploadAvatar(ctx context.Context, filename, contentType string, data []byte) (string, string, error) {
	key := fmt.Sprintf("%s/%s%s", avatarNamespace, uuid.NewString(), filepath.Ext(filename))

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", err
	}

	if thumb, err := generateThumbnail(data); err == nil {
		_, _ = s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(thumbKey(key)),
			Body:        bytes.NewReader(thumb),
			ContentType: aws.String("image/jpeg"),
		})
	}

	return key, s.publicURL(key), nil
}

// DeleteAvatar removes the image and its thumbnail. Missing objects are not an
// error; S3 deletes are idempotent.
func (s *S3Store) DeleteAvatar(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	_, _ = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(thumbKey(key)),
	})
	return nil
}

func (s *S3Store) publicURL(key string) string {
	escaped := url.PathEscape(key)
	// PathEscape keeps "/" meaningful in object keys
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

func thumbKey(key string) string {
	return key + "_thumb.jpg"
}

func generateThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
