package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/jirasearch/internal/mock"
	"github.com/m-mizutani/jirasearch/internal/service"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewArchiveService(mock.NewS3Client)
	svc.SetNow(func() time.Time { return time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC) })

	rows := []models.Row{
		{"key": "A-1", models.FieldTime: int64(1715351400)},
		{"key": "A-2", "Cost": []string{"10", "20"}},
	}

	base := models.NewS3Object("dokoka", bucket, "jira/")
	obj, err := svc.Archive(rows, base)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.True(t, strings.HasPrefix(obj.Key, "jira/2024/05/10/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".msg.gz"))

	client := mock.NewS3Client("dokoka").(*mock.S3Client)
	assert.Equal(t, []string{obj.Key}, client.Keys(bucket))

	loaded, err := svc.Load(*obj)
	require.NoError(t, err)
	require.Equal(t, 2, len(loaded))
	assert.Equal(t, "A-1", loaded[0]["key"])
	ts, ok := loaded[0].Time()
	assert.True(t, ok)
	assert.Equal(t, int64(1715351400), ts)
	assert.Equal(t, "10,20", loaded[1].String("Cost"))

	t.Run("empty rows are not archived", func(tt *testing.T) {
		obj, err := svc.Archive(nil, base)
		assert.NoError(tt, err)
		assert.Nil(tt, obj)
	})
}
