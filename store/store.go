package store

import (
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Archive persists rendered transcriptions to S3. The serve surface
// writes one object per job; everything else ignores it.
type Archive struct {
	bucket string
	client *s3.S3
	log    *slog.Logger
}

// FromEnv builds an Archive from the TAB_BUCKET environment variable.
// Returns nil when unset, which callers treat as archiving disabled.
func FromEnv(log *slog.Logger) *Archive {
	bucket := os.Getenv("TAB_BUCKET")
	if bucket == "" {
		return nil
	}
	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		log.Warn("s3 archive disabled", "err", err)
		return nil
	}
	return &Archive{bucket: bucket, client: s3.New(sess), log: log}
}

// PutTab stores one rendered tab under its job ID.
func (a *Archive) PutTab(id, tab string) error {
	if a == nil {
		return nil
	}
	key := "transcriptions/" + id + ".tab"
	_, err := a.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(tab),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		a.log.Warn("s3 archive failed", "key", key, "err", err)
		return err
	}
	a.log.Debug("archived transcription", "bucket", a.bucket, "key", key)
	return nil
}
