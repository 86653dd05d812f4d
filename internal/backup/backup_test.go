package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestNew_ReturnsNoOpMirrorWhenUnconfigured(t *testing.T) {
	m, err := New(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.False(t, m.enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, m.Run(ctx, "/does/not/matter", "/does/not/matter"))
}

type stubS3Client struct {
	puts []*s3aws.PutObjectInput
}

func (s *stubS3Client) PutObject(_ context.Context, params *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	s.puts = append(s.puts, params)
	return &s3aws.PutObjectOutput{}, nil
}

func TestMirrorOnce_UploadsSessionFileAndAutosaveEntries(t *testing.T) {
	dir := t.TempDir()
	sessionFile := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(sessionFile, []byte(`{"documents":[]}`), 0o644))

	autosaveDir := filepath.Join(dir, "autosave")
	require.NoError(t, os.MkdirAll(autosaveDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(autosaveDir, "foo_bar~"), []byte("dirty contents"), 0o644))

	stub := &stubS3Client{}
	m := &Mirror{client: stub, bucket: "editorhost-backups", prefix: "editorhost"}

	m.mirrorOnce(context.Background(), sessionFile, autosaveDir)

	require.Len(t, stub.puts, 2)
	keys := []string{*stub.puts[0].Key, *stub.puts[1].Key}
	assert.Contains(t, keys, "editorhost/session.json")
	assert.Contains(t, keys, "editorhost/autosave/foo_bar~")
}

func TestMirrorOnce_SkipsMissingSessionFileAndDirectory(t *testing.T) {
	stub := &stubS3Client{}
	m := &Mirror{client: stub, bucket: "editorhost-backups"}

	m.mirrorOnce(context.Background(), filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "missing-dir"))

	assert.Empty(t, stub.puts)
}
