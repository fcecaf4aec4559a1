package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3 uploads documents to an S3 bucket.
type S3 struct {
	Uploader s3manageriface.UploaderAPI
	Bucket   string
	Prefix   string // key prefix, e.g. "invoices/"
}

// NewS3 creates an S3 sink using the default credential chain.
func NewS3(region, bucket, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive: s3 bucket is empty")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("archive: aws session: %w", err)
	}
	return &S3{Uploader: s3manager.NewUploader(sess), Bucket: bucket, Prefix: prefix}, nil
}

// Put uploads data as Prefix/name and returns the object URL.
func (s *S3) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.Prefix, path.Base("/"+name))
	out, err := s.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: uploading %s to s3://%s: %w", key, s.Bucket, err)
	}
	if out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.Bucket, key), nil
}
