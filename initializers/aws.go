package initializers

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdfshelf/pdfshelf-backend/storage"
)

var Storage storage.Backend

// InitStorage picks the object store: S3 when AWS_BUCKET_NAME is set, local
// disk otherwise.
func InitStorage() {
	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		root := os.Getenv("UPLOAD_DIR")
		if root == "" {
			root = "uploads"
		}
		Storage = storage.NewDisk(root)
		log.Printf("Using local storage at %s", root)
		return
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")),
	)
	if err != nil {
		log.Fatalf("unable to load AWS SDK config: %v", err)
	}

	Storage = storage.NewS3(s3.NewFromConfig(cfg), bucket)
	log.Printf("Using S3 storage bucket %s", bucket)
}
