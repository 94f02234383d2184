package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreWriteAndRead(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)
	ctx := context.Background()

	doc := sampleDoc{ID: "ENR-1", Status: "pending"}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectSet("enrollments/ENR-1", payload, 0).SetVal("OK")
	mock.ExpectGet("enrollments/ENR-1").SetVal(string(payload))

	require.NoError(t, store.Write(ctx, "enrollments/ENR-1", doc))

	var got sampleDoc
	require.NoError(t, store.Read(ctx, "enrollments/ENR-1", &got))
	assert.Equal(t, doc, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreReadMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectGet("enrollments/missing").RedisNil()

	var got sampleDoc
	err := store.Read(context.Background(), "enrollments/missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreWriteFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	doc := sampleDoc{ID: "ENR-2"}
	payload, _ := json.Marshal(doc)
	mock.ExpectSet("enrollments/ENR-2", payload, 0).SetErr(errors.New("connection refused"))

	err := store.Write(context.Background(), "enrollments/ENR-2", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, redis.Nil))
}
