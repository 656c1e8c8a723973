// Package secrets resolves the token signing key, either from
// configuration or from an object in S3-compatible storage.
package secrets

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophauth/internal/common"
	sc "github.com/dmitrijs2005/gophauth/internal/server/config"
)

// maxKeySize bounds how much of the key object is read.
const maxKeySize = 64 << 10

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}
)

// LoadSigningKey returns the configured secret key, or the contents of
// SecretKeyS3Object with surrounding whitespace removed when it is set.
func LoadSigningKey(ctx context.Context, cfg *sc.Config) ([]byte, error) {
	if cfg.SecretKeyS3Object == "" {
		return []byte(cfg.SecretKey), nil
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(cfg.S3Bucket),
		Key:    aws.String(cfg.SecretKeyS3Object),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", cfg.S3Bucket, cfg.SecretKeyS3Object, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(out.Body, maxKeySize))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", cfg.S3Bucket, cfg.SecretKeyS3Object, err)
	}

	key := bytes.TrimSpace(raw)
	if len(key) == 0 {
		return nil, &common.ConfigError{Field: "secret key s3 object", Reason: "is empty"}
	}
	return key, nil
}

func newClient(ctx context.Context, cfg *sc.Config) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}
