package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/readhaven/readhaven/config"
)

const coverThumbnailWidth = 320

// MediaService stores book files and covers in the media bucket and derives
// cover thumbnails.
type MediaService interface {
	UploadBookFile(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
	UploadCover(ctx context.Context, file multipart.File, header *multipart.FileHeader) (imageURL string, thumbnailURL string, err error)
}

type mediaService struct {
	Config *config.Config
	client *s3.Client
}

func NewMediaService(conf *config.Config) (MediaService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(conf.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AwsAccessKeyID, conf.AwsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &mediaService{
		Config: conf,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (m *mediaService) UploadBookFile(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("only PDF files are accepted, got %q", ext)
	}

	key := fmt.Sprintf("books/%s%s", uuid.New().String(), ext)
	if err := m.putObject(ctx, key, file, "application/pdf"); err != nil {
		return "", err
	}
	return m.objectURL(key), nil
}

func (m *mediaService) UploadCover(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	img, format, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("decoding cover image: %w", err)
	}

	contentType := "image/jpeg"
	imagingFormat := imaging.JPEG
	ext := ".jpg"
	if format == "png" {
		contentType = "image/png"
		imagingFormat = imaging.PNG
		ext = ".png"
	}

	id := uuid.New().String()

	var full bytes.Buffer
	if err := imaging.Encode(&full, img, imagingFormat); err != nil {
		return "", "", fmt.Errorf("encoding cover: %w", err)
	}
	coverKey := fmt.Sprintf("covers/%s%s", id, ext)
	if err := m.putObject(ctx, coverKey, bytes.NewReader(full.Bytes()), contentType); err != nil {
		return "", "", err
	}

	thumb := imaging.Resize(img, coverThumbnailWidth, 0, imaging.Lanczos)
	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imagingFormat); err != nil {
		return "", "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	thumbKey := fmt.Sprintf("covers/thumbs/%s%s", id, ext)
	if err := m.putObject(ctx, thumbKey, bytes.NewReader(thumbBuf.Bytes()), contentType); err != nil {
		return "", "", err
	}

	return m.objectURL(coverKey), m.objectURL(thumbKey), nil
}

func (m *mediaService) putObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.MediaBucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("error uploading %s: %v", key, err)
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

func (m *mediaService) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.MediaBucket, m.Config.AwsRegion, key)
}
