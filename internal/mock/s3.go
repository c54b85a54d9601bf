package mock

import (
	"bytes"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
)

// NewS3Client is constructor of S3 Mock
func NewS3Client(region string) adaptor.S3Client {
	return &S3Client{
		Region: region,
		data:   mockS3ClientDataStore,
	}
}

// S3Client is on memory S3Client mock
type S3Client struct {
	Region string
	data   map[string]map[string]*s3Object
}

type s3Object struct {
	raw      []byte
	encoding *string
}

var mockS3ClientDataStore = map[string]map[string]*s3Object{}

// GetObject of S3Client loads []bytes from memory
func (x *S3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	obj, ok := bucket[*input.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:            ioutil.NopCloser(bytes.NewReader(obj.raw)),
		ContentEncoding: obj.encoding,
	}, nil
}

// PutObject of S3Client saves []bytes to memory
func (x *S3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	raw, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		bucket = map[string]*s3Object{}
		x.data[*input.Bucket] = bucket
	}

	bucket[*input.Key] = &s3Object{raw: raw, encoding: input.ContentEncoding}

	return &s3.PutObjectOutput{}, nil
}

// Keys returns object keys in the bucket
func (x *S3Client) Keys(bucket string) []string {
	var keys []string
	for k := range x.data[bucket] {
		keys = append(keys, k)
	}
	return keys
}
