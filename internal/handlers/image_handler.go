package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"bakery-backend/internal/config"
	"bakery-backend/internal/middleware"
	"bakery-backend/pkg/utils"
)

const maxImageSize = 5 << 20 // 5 MiB

// ImageHandler uploads ingredient/product images to S3-compatible storage
// (R2 in production) and returns the public URL for the imageUrl fields.
type ImageHandler struct {
	client *s3.Client
	bucket string
	base   string
}

// NewImageHandler returns nil when object storage is not configured; the
// router then skips the upload route.
func NewImageHandler(cfg *config.Config) *ImageHandler {
	if !cfg.S3.Enabled {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		log.Printf("[S3] client configuration failed, uploads disabled: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	return &ImageHandler{
		client: client,
		bucket: cfg.S3.Bucket,
		base:   strings.TrimSuffix(cfg.S3.PublicBaseURL, "/"),
	}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ValidationError(w, []utils.FieldError{{Field: "image", Message: "required file field"}})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		utils.ValidationError(w, []utils.FieldError{{Field: "image", Message: "file too large (max 5 MiB)"}})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType := mimeForExt(ext)
	if contentType == "" {
		utils.ValidationError(w, []utils.FieldError{{Field: "image", Message: "unsupported file type"}})
		return
	}

	key := fmt.Sprintf("images/%s%s", uuid.NewString(), ext)

	_, err = h.client.PutObject(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[S3] upload failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if username, ok := middleware.UsernameFromContext(r.Context()); ok {
		log.Printf("[S3] %s uploaded %s (%d bytes)", username, key, header.Size)
	}

	utils.JSON(w, http.StatusOK, map[string]string{"url": h.base + "/" + key})
}

func mimeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
