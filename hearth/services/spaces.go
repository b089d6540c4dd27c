package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ellavondegurechaff/hearth/hearth/config"
)

// SpacesService stores badge icons and showcase renders on DigitalOcean
// Spaces. Badge icons live under the badge root as {badge_id}.png, showcase
// renders under the showcase root keyed by guild and user.
type SpacesService struct {
	client    *s3.Client
	bucket    string
	region    string
	BadgeRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, badgeRoot string) *SpacesService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	client := s3.NewFromConfig(cfg)

	if badgeRoot == "" {
		badgeRoot = config.BadgeImageRoot
	}

	return &SpacesService{
		client:    client,
		bucket:    bucket,
		region:    region,
		BadgeRoot: strings.TrimPrefix(badgeRoot, "/"),
	}
}

func (s *SpacesService) badgeKey(badgeID string) string {
	return fmt.Sprintf("%s%s.png", s.BadgeRoot, badgeID)
}

// BadgeImageURL returns the public URL a badge icon would be served from,
// whether or not one has been uploaded.
func (s *SpacesService) BadgeImageURL(badgeID string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.badgeKey(badgeID))
}

// UploadBadgeImage stores a badge icon and returns its public URL.
func (s *SpacesService) UploadBadgeImage(ctx context.Context, badgeID string, imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("badge image is empty")
	}
	if len(imageData) > config.MaxBadgeImageSize {
		return "", fmt.Errorf("badge image exceeds size limit: %d > %d", len(imageData), config.MaxBadgeImageSize)
	}

	key := s.badgeKey(badgeID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(imageData),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload badge image %s: %w", badgeID, err)
	}

	return s.BadgeImageURL(badgeID), nil
}

// HasBadgeImage reports whether a badge icon exists. Lookup errors count as
// absence, callers only need a display hint.
func (s *SpacesService) HasBadgeImage(ctx context.Context, badgeID string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.badgeKey(badgeID)),
	})
	return err == nil
}

// DeleteBadgeImage removes a badge icon and waits for the deletion to be
// visible.
func (s *SpacesService) DeleteBadgeImage(ctx context.Context, badgeID string) error {
	key := s.badgeKey(badgeID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete badge image %s: %w", badgeID, err)
	}

	waiter := s3.NewObjectNotExistsWaiter(s.client)
	err = waiter.Wait(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, 30*time.Second)
	if err != nil {
		return fmt.Errorf("error waiting for badge deletion %s: %w", badgeID, err)
	}

	return nil
}

// ListBadgeImages returns the badge ids that currently have an icon.
func (s *SpacesService) ListBadgeImages(ctx context.Context) ([]string, error) {
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.BadgeRoot),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list badge images: %w", err)
	}

	var ids []string
	for _, obj := range output.Contents {
		if obj.Key == nil {
			continue
		}
		name := strings.TrimPrefix(*obj.Key, s.BadgeRoot)
		name = strings.TrimSuffix(name, ".png")
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		ids = append(ids, name)
	}
	return ids, nil
}

// UploadShowcase archives a rendered unlock showcase and returns its public
// URL. Keys are timestamped so repeated unlocks never overwrite each other.
func (s *SpacesService) UploadShowcase(ctx context.Context, guildID, userID string, imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("showcase image is empty")
	}

	key := fmt.Sprintf("%s%s/%s_%d.png", config.ShowcaseImageRoot, guildID, userID, time.Now().Unix())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(imageData),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload showcase for %s: %w", userID, err)
	}

	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key), nil
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}
