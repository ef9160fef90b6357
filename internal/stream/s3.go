package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/llehouerou/wavestream/internal/errmsg"
)

// objectGetter is the subset of the S3 client used by the loader.
type objectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

func newS3Client(region, endpoint string) (objectGetter, error) {
	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return s3.New(sess), nil
}

func (l *Loader) s3Client() (objectGetter, error) {
	l.s3Once.Do(func() {
		if l.s3 == nil {
			l.s3, l.s3Err = newS3Client(l.s3Region, l.s3Endpoint)
		}
	})
	return l.s3, l.s3Err
}

// openS3 streams s3://bucket/key. Credentials come from the default AWS
// chain; descriptor headers do not apply.
func (l *Loader) openS3(ctx context.Context, u *url.URL) (io.ReadCloser, string, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, "", errmsg.Newf(errmsg.KindResolution, errmsg.OpStreamDescriptor, "invalid s3 location %q", u.String())
	}

	client, err := l.s3Client()
	if err != nil {
		return nil, "", errmsg.New(errmsg.KindAuth, errmsg.OpStreamDownload, err)
	}

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", s3Error(err)
	}
	return out.Body, aws.StringValue(out.ContentType), nil
}

func s3Error(err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return errmsg.New(errmsg.KindNotFound, errmsg.OpStreamDownload, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return errmsg.New(errmsg.KindAuth, errmsg.OpStreamDownload, err)
		case request.CanceledErrorCode:
			return errmsg.New(errmsg.KindCanceled, errmsg.OpStreamDownload, err)
		}
	}
	return errmsg.New(errmsg.KindNetwork, errmsg.OpStreamDownload, err)
}
