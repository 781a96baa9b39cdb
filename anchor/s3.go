package anchor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"rollup-l1-sender/common"
	"rollup-l1-sender/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ipfs/go-cid"
)

// metadataIPFSHash is the object metadata where the gateway stores the CID of
// an uploaded object
const metadataIPFSHash = "ipfs-hash"

// ObjectStore is the part of the S3 API used by S3Publisher
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput,
		optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Publisher uploads documents to an S3 compatible IPFS gateway and returns
// their CID
type S3Publisher struct {
	store   ObjectStore
	bucket  string
	timeout time.Duration
}

// NewS3Publisher creates a S3Publisher for the gateway in cfg
func NewS3Publisher(cfg *config.Anchor) *S3Publisher {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		EndpointResolver: s3.EndpointResolverFromURL(cfg.Endpoint),
		UsePathStyle:     true,
	})
	return NewS3PublisherWithStore(client, cfg.Bucket, cfg.Timeout.Duration)
}

// NewS3PublisherWithStore creates a S3Publisher on top of store
func NewS3PublisherWithStore(store ObjectStore, bucket string, timeout time.Duration) *S3Publisher {
	return &S3Publisher{
		store:   store,
		bucket:  bucket,
		timeout: timeout,
	}
}

// Put uploads body under name and returns the CID the gateway assigned to it
func (p *S3Publisher) Put(ctx context.Context, name string, body []byte) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if _, err := p.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", common.Wrap(fmt.Errorf("put %s: %w", name, err))
	}
	head, err := p.store.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return "", common.Wrap(fmt.Errorf("head %s: %w", name, err))
	}
	hash, ok := head.Metadata[metadataIPFSHash]
	if !ok {
		return "", common.Wrap(fmt.Errorf("%s has no %s metadata", name, metadataIPFSHash))
	}
	c, err := cid.Decode(hash)
	if err != nil {
		return "", common.Wrap(fmt.Errorf("%s %s: %w", name, metadataIPFSHash, err))
	}
	return c.String(), nil
}
