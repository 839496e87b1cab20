// Package s3 provides a design store backed by Amazon S3 or any
// S3-compatible object store.
//
// Each design is one JSON object at "<prefix><owner>/<id>.json".
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Config configures an S3 design store.
type Config struct {
	Bucket string
	Prefix string

	// Endpoint overrides the S3 endpoint, for MinIO and similar services.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// Store is an S3-backed design store.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New loads the default AWS configuration and creates a store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "s3 bucket is required")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewFromClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *s3.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) ownerPrefix(owner string) string {
	return s.prefix + owner + "/"
}

func (s *Store) key(owner, id string) (string, error) {
	if err := errors.ValidateID("owner", owner); err != nil {
		return "", err
	}
	if err := errors.ValidateID("design", id); err != nil {
		return "", err
	}
	return s.ownerPrefix(owner) + id + ".json", nil
}

func isMissing(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	return stderrors.As(err, &nsk) || stderrors.As(err, &nf)
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	key, err := s.key(owner, id)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, key, owner, id)
}

func (s *Store) read(ctx context.Context, key, owner, id string) (*design.Design, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isMissing(err) {
		return nil, design.NotFound(owner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get design %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read design %s: %w", key, err)
	}
	var d design.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse design %s: %w", key, err)
	}
	return &d, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}
	key, err := s.key(d.Owner, d.ID)
	if err != nil {
		return err
	}
	if prev, err := s.read(ctx, key, d.Owner, d.ID); err == nil {
		d.CreatedAt = prev.CreatedAt
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put design %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	key, err := s.key(owner, id)
	if err != nil {
		return err
	}

	// DeleteObject succeeds for missing keys, so check first.
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isMissing(err) {
		return design.NotFound(owner, id)
	}
	if err != nil {
		return fmt.Errorf("head design %s: %w", key, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete design %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	if err := errors.ValidateID("owner", owner); err != nil {
		return nil, err
	}

	out := []design.Design{}
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.ownerPrefix(owner)),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list designs for %s: %w", owner, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(key, s.ownerPrefix(owner)), ".json")
			d, err := s.read(ctx, key, owner, id)
			if err != nil {
				continue
			}
			out = append(out, *d)
		}
	}
	design.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

var _ design.Store = (*Store)(nil)
