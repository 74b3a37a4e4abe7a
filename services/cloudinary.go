package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

var Cloudinary *CloudinaryService

func InitializeCloudinary(cloudinaryURL string) error {
	if cloudinaryURL == "" {
		return fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	Cloudinary = &CloudinaryService{cld: cld}
	return nil
}

// UploadProduceImage uploads a produce listing photo and returns its URL.
func (cs *CloudinaryService) UploadProduceImage(file multipart.File, farmerID string) (string, error) {
	ctx := context.Background()

	folder := fmt.Sprintf("produce/%s", farmerID)
	publicID := fmt.Sprintf("%s/%d", folder, time.Now().UnixNano())

	result, err := cs.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UniqueFilename: &[]bool{true}[0],
		Overwrite:      &[]bool{false}[0],
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	// Normalize to HTTPS to avoid mixed-content blocking
	if result.SecureURL != "" {
		return forceHTTPS(result.SecureURL), nil
	}
	return forceHTTPS(result.URL), nil
}

func (cs *CloudinaryService) DeleteImage(publicID string) error {
	ctx := context.Background()

	_, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// forceHTTPS ensures Cloudinary URLs use https scheme
func forceHTTPS(in string) string {
	if in == "" {
		return in
	}
	out := strings.TrimSpace(in)
	out = strings.Replace(out, "http://", "https://", 1)
	return out
}
