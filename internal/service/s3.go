package service

import (
	"bytes"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

// Upload puts raw data as an object. encoding is set to ContentEncoding if not empty.
func (x *S3Service) Upload(raw []byte, dst models.S3Object, encoding string) error {
	input := &s3.PutObjectInput{
		Body:   bytes.NewReader(raw),
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
	}
	if encoding != "" {
		input.ContentEncoding = aws.String(encoding)
	}

	client := x.newS3(dst.Region)
	resp, err := client.PutObject(input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return errors.Wrapf(aerr, "Fail to upload an object in AWS (%s): %s", aerr.Code(), dst.Path())
		}
		return errors.Wrapf(err, "Fail to upload an object: %s", dst.Path())
	}

	logger.WithFields(logrus.Fields{
		"resp":   resp,
		"bucket": dst.Bucket,
		"key":    dst.Key,
		"size":   len(raw),
	}).Debug("Uploaded an object")

	return nil
}

// Download returns body of the object. It returns nil without error if the object does not exist.
func (x *S3Service) Download(src models.S3Object) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	}

	client := x.newS3(src.Region)
	output, err := client.GetObject(input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			logger.WithField("path", src.Path()).Warn("No such key, ignored")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Fail to download an object: %s", src.Path())
	}

	return output.Body, nil
}
