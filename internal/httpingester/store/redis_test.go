package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

const testStream = "tabstream:test"

func TestRedisSink_AppendsToStream(t *testing.T) {
	sink, db := newTestRedisSink(t)
	ctx := context.Background()

	first := testMessage(t)
	second := model.NewBatchMessage(4, model.NewBatch([]model.Row{{"name": "carol"}}))
	require.NoError(t, sink.Store(ctx, first))
	require.NoError(t, sink.Store(ctx, second))

	entries, err := db.XRange(ctx, testStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var decoded wireMessage
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values[dataKey].(string)), &decoded))
	assert.Equal(t, first.MessageId, decoded.MessageId)
	assert.Equal(t, int64(3), decoded.SequenceId)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "alice", decoded.Rows[0]["name"])

	require.NoError(t, json.Unmarshal([]byte(entries[1].Values[dataKey].(string)), &decoded))
	assert.Equal(t, int64(4), decoded.SequenceId)
}

func TestRedisSink_Check(t *testing.T) {
	sink, _ := newTestRedisSink(t)
	assert.NoError(t, sink.Check())
}

func newTestRedisSink(t *testing.T) (*RedisSink, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	db := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = db.Close() })
	return NewRedisSink(db, testStream), db
}
