// Package backup periodically mirrors the session file and the auto-save
// directory to S3 (or an S3-compatible service), so an operator can recover
// editor state even if the local disk is lost. It is entirely optional:
// a Mirror built from an unconfigured Config is a no-op.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client defines the subset of S3 operations Mirror needs. Narrowed from
// the full client surface so tests can supply a stub.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
}

// Mirror uploads the session file and auto-save directory to S3 on a
// fixed interval. The zero value is not usable; build one with New.
type Mirror struct {
	client   S3Client
	bucket   string
	prefix   string
	interval time.Duration
	logger   *slog.Logger
}

// New builds a Mirror from cfg. If cfg is not fully populated, Run becomes
// a no-op rather than failing startup over an optional feature.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*Mirror, error) {
	if log == nil {
		log = slog.Default()
	}
	if !cfg.enabled() {
		return &Mirror{logger: log}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("backup: load aws config: %w", err)
	}

	client := s3aws.NewFromConfig(awsCfg, func(o *s3aws.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Mirror{
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		interval: interval,
		logger:   log,
	}, nil
}

// enabled reports whether this Mirror actually talks to S3.
func (m *Mirror) enabled() bool {
	return m != nil && m.client != nil
}

// Run blocks, mirroring sessionFile and autosaveDir every interval until
// ctx is canceled. A nil or unconfigured Mirror returns immediately once
// ctx is done, without ever touching the network.
func (m *Mirror) Run(ctx context.Context, sessionFile, autosaveDir string) error {
	if !m.enabled() {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.mirrorOnce(ctx, sessionFile, autosaveDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.mirrorOnce(ctx, sessionFile, autosaveDir)
		}
	}
}

// mirrorOnce uploads the current session file and every file under
// autosaveDir, logging (but not failing on) individual upload errors so
// one bad file never stalls the mirror loop.
func (m *Mirror) mirrorOnce(ctx context.Context, sessionFile, autosaveDir string) {
	if sessionFile != "" {
		if _, err := os.Stat(sessionFile); err == nil {
			if err := m.uploadFile(ctx, sessionFile, path.Join(m.prefix, "session.json")); err != nil {
				m.logger.Error("backup: failed to mirror session file", "error", err)
			}
		}
	}

	entries, err := os.ReadDir(autosaveDir)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Error("backup: failed to read autosave directory", "error", err)
		}
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		local := filepath.Join(autosaveDir, entry.Name())
		key := path.Join(m.prefix, "autosave", entry.Name())
		if err := m.uploadFile(ctx, local, key); err != nil {
			m.logger.Error("backup: failed to mirror autosave file", "path", local, "error", err)
		}
	}
}

func (m *Mirror) uploadFile(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = m.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return classifyS3Error(err, "mirror "+localPath)
	}
	return nil
}
