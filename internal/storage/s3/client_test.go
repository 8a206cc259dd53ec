package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3manager.UploadInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	raw, _ := io.ReadAll(in.Body)
	f.body = string(raw)
	return &s3manager.UploadOutput{
		Location: "https://bucket.s3.amazonaws.com/" + aws.StringValue(in.Key),
	}, nil
}

type fakeS3 struct {
	s3iface.S3API
	headErr    error
	deleteErr  error
	deletedKey string
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletedKey = aws.StringValue(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucketWithContext(aws.Context, *s3.HeadBucketInput, ...request.Option) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

var fixedID = uuid.MustParse("0b9e1b0c-3f5e-4d7a-9a57-2d6f1c0c8e11")

func newTestClient(up *fakeUploader, svc *fakeS3, publicBaseURL string) *Client {
	c := newClient(svc, up, "shares", publicBaseURL)
	c.newID = func() uuid.UUID { return fixedID }
	return c
}

func TestClient_Put_UsesUploaderLocation(t *testing.T) {
	up := &fakeUploader{}
	c := newTestClient(up, &fakeS3{}, "")

	loc, err := c.Put(context.Background(), "report.pdf", strings.NewReader("hello"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.s3.amazonaws.com/uploads/"+fixedID.String()+"/report.pdf", loc)
	assert.Equal(t, "shares", aws.StringValue(up.input.Bucket))
	assert.Equal(t, "application/pdf", aws.StringValue(up.input.ContentType))
	assert.Equal(t, "hello", up.body)
}

func TestClient_Put_PublicBaseURL(t *testing.T) {
	up := &fakeUploader{}
	c := newTestClient(up, &fakeS3{}, "https://cdn.example.com/")

	loc, err := c.Put(context.Background(), "my file.txt", strings.NewReader("x"), "")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/uploads/"+fixedID.String()+"/my%20file.txt", loc)
	assert.Equal(t, defaultContentType, aws.StringValue(up.input.ContentType))
}

func TestClient_Put_Error(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	c := newTestClient(up, &fakeS3{}, "")

	_, err := c.Put(context.Background(), "a.txt", strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "access denied")
}

func TestClient_Delete_RoundTripsPutLocator(t *testing.T) {
	tests := []struct {
		name          string
		publicBaseURL string
		file          string
	}{
		{"uploader location", "", "report.pdf"},
		{"public base url", "https://cdn.example.com/files", "my file.txt"},
		{"name shaped like the prefix", "", "uploads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeS3{}
			c := newTestClient(&fakeUploader{}, svc, tt.publicBaseURL)

			loc, err := c.Put(context.Background(), tt.file, strings.NewReader("x"), "")
			require.NoError(t, err)

			require.NoError(t, c.Delete(context.Background(), loc))
			assert.Equal(t, BuildObjectKey(fixedID, tt.file), svc.deletedKey)
		})
	}
}

func TestClient_Delete_PathStyleBucketNamedUploads(t *testing.T) {
	svc := &fakeS3{}
	c := newTestClient(&fakeUploader{}, svc, "")

	loc := "http://minio:9000/uploads/uploads/" + fixedID.String() + "/a.txt"
	require.NoError(t, c.Delete(context.Background(), loc))
	assert.Equal(t, "uploads/"+fixedID.String()+"/a.txt", svc.deletedKey)
}

func TestClient_Delete_Errors(t *testing.T) {
	c := newTestClient(&fakeUploader{}, &fakeS3{}, "")
	assert.ErrorContains(t, c.Delete(context.Background(), "https://example.com/elsewhere/a.txt"), "does not name an upload")

	c = newTestClient(&fakeUploader{}, &fakeS3{deleteErr: errors.New("access denied")}, "")
	err := c.Delete(context.Background(), "https://bucket.s3.amazonaws.com/uploads/"+fixedID.String()+"/a.txt")
	assert.ErrorContains(t, err, "access denied")
}

func TestClient_CheckBucket(t *testing.T) {
	c := newTestClient(&fakeUploader{}, &fakeS3{}, "")
	assert.NoError(t, c.CheckBucket(context.Background()))

	c = newTestClient(&fakeUploader{}, &fakeS3{headErr: errors.New("not found")}, "")
	assert.ErrorContains(t, c.CheckBucket(context.Background()), "shares")
}

func TestBuildObjectKey(t *testing.T) {
	assert.Equal(t, "uploads/"+fixedID.String()+"/a.txt", BuildObjectKey(fixedID, "a.txt"))
	assert.Equal(t, "uploads/"+fixedID.String()+"/passwd", BuildObjectKey(fixedID, "../../etc/passwd"))
	assert.Equal(t, "uploads/"+fixedID.String()+"/x.bin", BuildObjectKey(fixedID, `C:\tmp\x.bin`))
	assert.Equal(t, "uploads/"+fixedID.String()+"/file", BuildObjectKey(fixedID, ""))
}
