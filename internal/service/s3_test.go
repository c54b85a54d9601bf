package service_test

import (
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/m-mizutani/jirasearch/internal/mock"
	"github.com/m-mizutani/jirasearch/internal/service"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Upload(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewS3Service(mock.NewS3Client)

	dst := models.NewS3Object("dokoka", bucket, "sowaka.txt")
	require.NoError(t, svc.Upload([]byte("five timeless words"), dst, "gzip"))

	client := mock.NewS3Client("dokoka")
	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: &bucket,
		Key:    aws.String("sowaka.txt"),
	})
	require.NoError(t, err)
	raw, err := ioutil.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, "five timeless words", string(raw))
	assert.Equal(t, "gzip", aws.StringValue(out.ContentEncoding))
}

func TestS3Download(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewS3Service(mock.NewS3Client)

	t.Run("existing object", func(tt *testing.T) {
		dst := models.NewS3Object("dokoka", bucket, "k1")
		require.NoError(tt, svc.Upload([]byte("a"), dst, ""))

		body, err := svc.Download(dst)
		require.NoError(tt, err)
		require.NotNil(tt, body)
		raw, err := ioutil.ReadAll(body)
		require.NoError(tt, err)
		assert.Equal(tt, "a", string(raw))
	})

	t.Run("missing object", func(tt *testing.T) {
		body, err := svc.Download(models.NewS3Object("dokoka", bucket, "nothing"))
		assert.NoError(tt, err)
		assert.Nil(tt, body)
	})
}
