package application

import (
	"context"
	"errors"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/pkg/helpers"
	"github.com/blisscet/store-api/pkg/uploads"
)

// Folders under the bucket for the two upload types.
const (
	AvatarFolder       = "user-avatars"
	ProductImageFolder = "product-images"
)

// ImageStore turns accepted multipart uploads into hosted-image references.
type ImageStore struct {
	Client *storage.Client
	Bucket string
}

func NewImageStore(client *storage.Client, bucket string) *ImageStore {
	return &ImageStore{Client: client, Bucket: bucket}
}

// Upload pushes the file under folder/<uuid><ext> and returns the reference.
// The object path doubles as the reference id.
func (s *ImageStore) Upload(ctx context.Context, folder string, f *uploads.File) (entity.ImageRef, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return entity.ImageRef{}, errors.New("image host not configured")
	}
	objectPath := path.Join(folder, uuid.NewString()+f.Ext)
	url, err := helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, f.ContentType, f.Reader)
	if err != nil {
		return entity.ImageRef{}, err
	}
	return entity.ImageRef{ID: objectPath, URL: url}, nil
}
