// Package remote fetches a sample file from object storage onto local
// disk before profile.Load reads it, for build farms that keep the
// canonical sp.data centrally rather than on the compiling host.
// Grounded on this project's own tools/coredump/cloudstore pattern for
// fetching build artifacts from S3-compatible storage.
package remote

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Downloader is the narrow subset of the S3 client this package needs,
// so tests can substitute a fake without standing up real AWS
// credentials.
type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetch resolves uri to a local path readable by profile.Load. A plain
// filesystem path is returned unchanged with a no-op cleanup. An
// "s3://bucket/key" URI is downloaded to a temp file; cleanup removes
// that temp file once the caller is done with it.
func Fetch(ctx context.Context, uri string) (path string, cleanup func(), err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return uri, func() {}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return fetchWith(ctx, client, uri)
}

func fetchWith(ctx context.Context, client S3Downloader, uri string) (string, func(), error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return "", nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer out.Body.Close()

	f, err := os.CreateTemp("", "sampleprofile-*.data")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.ReadFrom(out.Body); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file for %s: %w", uri, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return f.Name(), cleanup, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parsing %s: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
