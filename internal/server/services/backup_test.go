package services

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/mvalens/leadkeeper/internal/server/config"
)

func stubAWS(t *testing.T, presigned *v4.PresignedHTTPRequest, capturedKey *string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewClient := newS3ClientFromConfig
	origNewPresign := newS3PresignClient
	origPresign := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewClient
		newS3PresignClient = origNewPresign
		presignPutObject = origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return nil
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return nil
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		*capturedKey = *in.Key
		return presigned, nil
	}
}

func TestPresignBackupPut(t *testing.T) {
	var capturedKey string
	stubAWS(t, &v4.PresignedHTTPRequest{URL: "http://minio/presigned"}, &capturedKey)

	cfg := &sc.Config{}
	cfg.LoadDefaults()
	svc := NewBackupService(cfg)

	key, url, err := svc.PresignBackupPut(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/presigned", url)
	assert.Equal(t, capturedKey, key)
	assert.True(t, strings.HasPrefix(key, "backups/user-1/"), "key = %q", key)
	assert.True(t, strings.HasSuffix(key, ".json"))
}

func TestBackupStorageKey_UniquePerCall(t *testing.T) {
	a := backupStorageKey("user-1")
	b := backupStorageKey("user-1")
	assert.NotEqual(t, a, b)
}
