package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.StorageConfig {
	return config.StorageConfig{
		Bucket:          "fuelsync-reports",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		Prefix:          "/exports/",
	}
}

func TestNewS3Storage(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.StorageConfig{})
	require.Error(t, err)

	s, err := NewS3Storage(context.Background(), testS3Config())
	require.NoError(t, err)
	assert.Equal(t, "fuelsync-reports", s.Bucket())
	assert.Equal(t, 15*time.Minute, s.presignExpiry)
	assert.Equal(t, "exports/t1/sales.csv", s.objectKey("t1/sales.csv"))
}

func TestS3Storage_PresignGet(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testS3Config())
	require.NoError(t, err)

	_, _, err = s.PresignGet(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)

	url, expires, err := s.PresignGet(context.Background(), "t1/sales.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/fuelsync-reports/exports/t1/sales.csv"))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, time.Minute)
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage("http://files.local")

	data := []byte("id,amount\n1,100\n")
	require.NoError(t, m.Put(ctx, "t1/sales.csv", data, "text/csv"))
	data[0] = 'X'

	got, ct, ok := m.Get("t1/sales.csv")
	require.True(t, ok)
	assert.Equal(t, "text/csv", ct)
	assert.Equal(t, "id,amount\n1,100\n", string(got))

	url, _, err := m.PresignGet(ctx, "t1/sales.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://files.local/t1%2Fsales.csv?expires="))

	require.NoError(t, m.Delete(ctx, "t1/sales.csv"))
	_, _, ok = m.Get("t1/sales.csv")
	assert.False(t, ok)
	assert.ErrorIs(t, m.Put(ctx, "", nil, ""), ErrEmptyKey)
}
