package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFeed_DrainKeepsOrderAndCapacity(t *testing.T) {
	feed := NewFeed(3)
	cartID := uuid.New()
	other := uuid.New()

	for i := 0; i < 5; i++ {
		feed.Notify(context.Background(), Notification{CartID: cartID, Title: fmt.Sprintf("n%d", i)})
	}
	feed.Notify(context.Background(), Notification{CartID: other, Title: "other"})

	got := feed.Drain(cartID)
	require.Len(t, got, 3)
	assert.Equal(t, "n2", got[0].Title)
	assert.Equal(t, "n4", got[2].Title)
	assert.False(t, got[0].CreatedAt.IsZero())

	assert.Empty(t, feed.Drain(cartID))
	assert.Len(t, feed.Drain(other), 1)
}

func TestFeed_Forget(t *testing.T) {
	feed := NewFeed(10)
	cartID := uuid.New()
	feed.Notify(context.Background(), Notification{CartID: cartID})
	feed.Forget(cartID)
	assert.Empty(t, feed.Drain(cartID))
}

func TestMulti_LogsAndQueues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	feed := NewFeed(10)
	sink := Multi{NewLogSink(zap.New(core)), feed}
	cartID := uuid.New()

	sink.Notify(context.Background(), Notification{CartID: cartID, Level: LevelSuccess, Title: "Product added"})
	sink.Notify(context.Background(), Notification{CartID: cartID, Level: LevelError, Title: "Error"})

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
	assert.Len(t, feed.Drain(cartID), 2)
}
