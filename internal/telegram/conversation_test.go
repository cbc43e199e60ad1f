package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationBeginAndGet(t *testing.T) {
	convs := NewConversations(0)

	conv := convs.Begin(100, StepGiftName)
	conv.Draft.Name = "Espresso machine"

	got := convs.Get(100)
	require.NotNil(t, got)
	assert.Equal(t, StepGiftName, got.Step)
	assert.Equal(t, "Espresso machine", got.Draft.Name)

	assert.Nil(t, convs.Get(200))
}

func TestConversationBeginRestartsFlow(t *testing.T) {
	convs := NewConversations(0)

	conv := convs.Begin(100, StepGiftPrice)
	price := 500
	conv.Draft.Price = &price

	// A new flow starts from scratch.
	conv = convs.Begin(100, StepFactText)
	assert.Equal(t, StepFactText, conv.Step)
	assert.Nil(t, conv.Draft.Price)
}

func TestConversationClear(t *testing.T) {
	convs := NewConversations(0)

	convs.Begin(100, StepBanTarget)
	convs.Clear(100)
	assert.Nil(t, convs.Get(100))

	// Clearing an absent conversation is a no-op.
	convs.Clear(100)
}

func TestConversationExpiresOnAccess(t *testing.T) {
	convs := NewConversations(10 * time.Millisecond)

	conv := convs.Begin(100, StepPledgeAmount)
	conv.StartedAt = time.Now().Add(-time.Minute)

	assert.Nil(t, convs.Get(100))
	assert.Equal(t, 0, convs.Len())
}

func TestConversationSweep(t *testing.T) {
	convs := NewConversations(10 * time.Millisecond)

	stale := convs.Begin(100, StepGiftName)
	stale.StartedAt = time.Now().Add(-time.Minute)
	convs.Begin(200, StepGiftName)

	convs.sweep()

	assert.Equal(t, 1, convs.Len())
	assert.Nil(t, convs.Get(100))
	assert.NotNil(t, convs.Get(200))
}
