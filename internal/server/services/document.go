package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	sc "github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// DocumentService manages the shared-document catalog. Content never passes
// through the server: uploads and downloads go straight to the S3-compatible
// backend via presigned URLs, and only metadata is stored here.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

// NewDocumentService constructs a DocumentService using repositories and server config.
func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey returns a date-partitioned object key for a new upload.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("documents/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *DocumentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// Create registers catalog metadata for a new document and returns it along
// with a presigned PUT URL the caller uploads the content to.
func (s *DocumentService) Create(ctx context.Context, title, description, owner string) (*models.Document, string, error) {
	if strings.TrimSpace(title) == "" {
		return nil, "", fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, "", err
	}

	doc := &models.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		StorageKey:  key,
		Owner:       owner,
		CreatedAt:   time.Now(),
	}

	repo := s.repomanager.Documents(s.db)
	created, err := repo.Create(ctx, doc)
	if err != nil {
		return nil, "", err
	}

	return created, req.URL, nil
}

// Get returns the document metadata by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.Get(ctx, id)
}

// List returns all catalog entries.
func (s *DocumentService) List(ctx context.Context) ([]*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.List(ctx)
}

// GetDownloadURL returns a presigned GET URL for the document's content.
func (s *DocumentService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	repo := s.repomanager.Documents(s.db)
	doc, err := repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &doc.StorageKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
