package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// S3Object indicates a location of S3 object.
type S3Object struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// NewS3Object is constructor of S3Object
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// ParseS3Path converts s3://bucket/key format to S3Object.
func ParseS3Path(region, path string) (*S3Object, error) {
	if !strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("Invalid S3 path (s3:// is required): %s", path)
	}

	arr := strings.SplitN(strings.TrimPrefix(path, "s3://"), "/", 2)
	if arr[0] == "" {
		return nil, errors.New("Invalid S3 path (bucket name is required): " + path)
	}

	obj := NewS3Object(region, arr[0], "")
	if len(arr) == 2 {
		obj.Key = arr[1]
	}
	return &obj, nil
}

// AppendKey returns a new S3Object that has joined key.
func (x S3Object) AppendKey(append string) S3Object {
	switch {
	case x.Key == "":
		x.Key = append
	case strings.HasSuffix(x.Key, "/"):
		x.Key += append
	default:
		x.Key += "/" + append
	}
	return x
}

// Path returns s3:// form of the object
func (x S3Object) Path() string {
	return fmt.Sprintf("s3://%s/%s", x.Bucket, x.Key)
}
