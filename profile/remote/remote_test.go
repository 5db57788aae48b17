package remote

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLocalPathPassesThrough(t *testing.T) {
	local := filepath.Join(t.TempDir(), "sp.data")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o600))

	path, cleanup, err := Fetch(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, local, path)
	cleanup() // must not touch the real filesystem path
	_, err = os.Stat(local)
	assert.NoError(t, err, "cleanup must be a no-op for local paths")
}

type fakeDownloader struct {
	body []byte
	err  error
}

func (f *fakeDownloader) GetObject(_ context.Context, in *s3.GetObjectInput,
	_ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestFetchWithDownloadsToTempFile(t *testing.T) {
	dl := &fakeDownloader{body: []byte("sample-profile-bytes")}
	path, cleanup, err := fetchWith(context.Background(), dl, "s3://my-bucket/path/sp.data")
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sample-profile-bytes", string(data))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://my-bucket/path/to/sp.data")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/sp.data", key)
}

func TestParseS3URIRejectsOtherSchemes(t *testing.T) {
	_, _, err := parseS3URI("https://example.com/sp.data")
	assert.Error(t, err)
}
