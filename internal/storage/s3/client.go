package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"share-portal/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken         = ""
	objectKeyPrefix              = "uploads"
	fallbackObjectName           = "file"
	defaultContentType           = "application/octet-stream"
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedUploadObjectFmt     = "failed to upload object: %w"
	errFailedHeadBucketFmt       = "failed to reach bucket %s: %w"
	errFailedDeleteObjectFmt     = "failed to delete object %s: %w"
	errUnknownLocatorFmt         = "locator %q does not name an upload"
)

// Client puts shared files into one bucket and hands back a public locator.
type Client struct {
	svc           s3iface.S3API
	uploader      s3manageriface.UploaderAPI
	bucket        string
	publicBaseURL string
	newID         func() uuid.UUID
}

func NewClient(cfg *config.StorageConfig) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	svc := s3.New(sess)
	return newClient(svc, s3manager.NewUploaderWithClient(svc), cfg.Bucket, cfg.PublicBaseURL), nil
}

func newClient(svc s3iface.S3API, uploader s3manageriface.UploaderAPI, bucket, publicBaseURL string) *Client {
	return &Client{
		svc:           svc,
		uploader:      uploader,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		newID:         uuid.New,
	}
}

// Put stores body under a fresh key derived from name and returns the URL
// recipients will be redirected to.
func (c *Client) Put(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	key := BuildObjectKey(c.newID(), name)

	out, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf(errFailedUploadObjectFmt, err)
	}

	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + escapeKey(key), nil
	}
	return out.Location, nil
}

// Delete removes the object behind a locator returned by Put.
func (c *Client) Delete(ctx context.Context, locator string) error {
	key, err := objectKeyFromLocator(locator)
	if err != nil {
		return err
	}

	_, err = c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, key, err)
	}
	return nil
}

// CheckBucket verifies the bucket is reachable with the configured credentials.
func (c *Client) CheckBucket(ctx context.Context) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf(errFailedHeadBucketFmt, c.bucket, err)
	}
	return nil
}

// BuildObjectKey places every upload under its own id prefix.
func BuildObjectKey(id uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = fallbackObjectName
	}
	return objectKeyPrefix + "/" + id.String() + "/" + name
}

// objectKeyFromLocator recovers the key from either a public base URL or an
// S3 location, virtual-hosted or path style. The name segment never holds a
// slash, so the last "/uploads/" starts the key.
func objectKeyFromLocator(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf(errUnknownLocatorFmt, locator)
	}

	idx := strings.LastIndex(u.Path, "/"+objectKeyPrefix+"/")
	if idx < 0 {
		return "", fmt.Errorf(errUnknownLocatorFmt, locator)
	}
	return u.Path[idx+1:], nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
