package s3wrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4Signer "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

type Client struct {
	s3 *s3.Client
}

type noAcceptEncodingSigner struct {
	signer s3.HTTPSignerV4
}

func (signer *noAcceptEncodingSigner) SignHTTP(ctx context.Context, credentials aws.Credentials, r *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(*v4Signer.SignerOptions)) error {
	acceptEncoding := r.Header.Get("Accept-Encoding")
	r.Header.Del("Accept-Encoding")
	err := signer.signer.SignHTTP(ctx, credentials, r, payloadHash, service, region, signingTime, optFns...)
	if acceptEncoding != "" {
		r.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return err
}

func New(ctx context.Context, forcePathStyle bool) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)

	s3Client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		options.UsePathStyle = forcePathStyle
		defSigner := v4Signer.NewSigner(func(so *v4Signer.SignerOptions) {
			so.Logger = options.Logger
			so.LogSigning = options.ClientLogMode.IsSigning()
			so.DisableURIPathEscaping = true
		})
		options.HTTPSignerV4 = &noAcceptEncodingSigner{signer: defSigner}
	})

	return &Client{s3: s3Client}, nil
}

// IsNotFound reports whether err is the storage's answer for a missing key.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

type ObjectMetaData struct {
	Key       string
	Size      int64
	Timestamp time.Time
}

type ListObjectsOption func(*s3.ListObjectsV2Input)

func WithPrefix(prefix string) ListObjectsOption {
	return func(o *s3.ListObjectsV2Input) {
		o.Prefix = &prefix
	}
}

func (client *Client) ListObjects(ctx context.Context, bucket string, opts ...ListObjectsOption) ([]ObjectMetaData, error) {
	params := &s3.ListObjectsV2Input{
		Bucket: &bucket,
	}
	for _, opt := range opts {
		opt(params)
	}

	var result []ObjectMetaData
	paginator := s3.NewListObjectsV2Paginator(client.s3, params)
	for paginator.HasMorePages() {
		resp, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range resp.Contents {
			if strings.HasSuffix(aws.ToString(obj.Key), "/") {
				// Some S3-compatible services list directory placeholders as objects.
				continue
			}

			result = append(result, ObjectMetaData{
				Key:       aws.ToString(obj.Key),
				Size:      aws.ToInt64(obj.Size),
				Timestamp: aws.ToTime(obj.LastModified),
			})
		}
	}

	return result, nil
}

func (client *Client) HeadObject(ctx context.Context, bucket, key string) (*ObjectMetaData, error) {
	resp, err := client.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}

	return &ObjectMetaData{
		Key:       key,
		Size:      aws.ToInt64(resp.ContentLength),
		Timestamp: aws.ToTime(resp.LastModified),
	}, nil
}

func (client *Client) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	var objectIds []types.ObjectIdentifier
	for _, key := range keys {
		objectIds = append(objectIds, types.ObjectIdentifier{
			Key: aws.String(key),
		})
	}
	if _, err := client.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: &bucket,
		Delete: &types.Delete{
			Objects: objectIds,
		},
	}); err != nil {
		return err
	}

	return nil
}

func (client *Client) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := client.s3.PutObject(ctx, input); err != nil {
		return err
	}

	return nil
}

func (client *Client) GetPresignedGetURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(client.s3)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
