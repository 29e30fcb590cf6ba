// Package reliability handles database backups to S3-compatible object
// storage (Cloudflare R2 in production). Snapshots are gzip'd, checksummed,
// uploaded, and rotated.
package reliability

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/config"
	"github.com/tripscout/tripscout/internal/database"
	"github.com/tripscout/tripscout/internal/events"
)

// Snapshots beyond this count are rotated out, oldest first
const keepSnapshots = 14

const snapshotPrefix = "backups/"

// BackupService uploads database snapshots to object storage
type BackupService struct {
	client *s3.Client
	bucket string
	db     *database.DB
	bus    *events.Bus
	log    zerolog.Logger
}

// NewBackupService builds the backup service from configuration.
// Returns nil when backups are not configured.
func NewBackupService(cfg *config.Config, db *database.DB, bus *events.Bus, log zerolog.Logger) (*BackupService, error) {
	if !cfg.BackupEnabled() {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.BackupAccessKey, cfg.BackupSecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load backup credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BackupEndpoint)
	})

	return &BackupService{
		client: client,
		bucket: cfg.BackupBucket,
		db:     db,
		bus:    bus,
		log:    log.With().Str("component", "backup").Logger(),
	}, nil
}

// Backup snapshots the database file, uploads it, and rotates old
// snapshots.
func (s *BackupService) Backup(ctx context.Context) error {
	start := time.Now()

	staged, checksum, err := s.stageSnapshot()
	if err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}
	defer os.Remove(staged)

	key := fmt.Sprintf("%stripscout-%s.db.gz", snapshotPrefix, start.UTC().Format("20060102-150405"))
	if err := s.upload(ctx, staged, key, checksum); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	removed, err := s.rotate(ctx)
	if err != nil {
		// the snapshot itself landed; rotation can catch up next run
		s.log.Warn().Err(err).Msg("Snapshot rotation failed")
	}

	s.log.Info().
		Str("key", key).
		Str("sha256", checksum).
		Int("rotated", removed).
		Dur("duration", time.Since(start)).
		Msg("Backup complete")
	s.bus.Emit(events.BackupCompleted, "", map[string]interface{}{
		"key":    key,
		"sha256": checksum,
	})
	return nil
}

// stageSnapshot gzips the database file into a temp file and returns
// its path and the sha256 of the compressed bytes.
func (s *BackupService) stageSnapshot() (string, string, error) {
	src, err := os.Open(s.db.Path())
	if err != nil {
		return "", "", fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	staged, err := os.CreateTemp("", filepath.Base(s.db.Path())+"-*.gz")
	if err != nil {
		return "", "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer staged.Close()

	// hash the compressed stream as it is written
	hash := sha256.New()
	gz := gzip.NewWriter(io.MultiWriter(staged, hash))
	if _, err := io.Copy(gz, src); err != nil {
		os.Remove(staged.Name())
		return "", "", fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		os.Remove(staged.Name())
		return "", "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return staged.Name(), hex.EncodeToString(hash.Sum(nil)), nil
}

func (s *BackupService) upload(ctx context.Context, path, key, checksum string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	uploader := manager.NewUploader(s.client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/gzip"),
		Metadata:    map[string]string{"sha256": checksum},
	})
	return err
}

// rotate deletes the oldest snapshots beyond the retention count.
// Snapshot keys embed their timestamp, so lexical order is
// chronological.
func (s *BackupService) rotate(ctx context.Context) (int, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(snapshotPrefix),
	})
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	if len(keys) <= keepSnapshots {
		return 0, nil
	}
	sort.Strings(keys)

	stale := keys[:len(keys)-keepSnapshots]
	for _, key := range stale {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to delete stale snapshot %s: %w", key, err)
		}
	}
	return len(stale), nil
}
