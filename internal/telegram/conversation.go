package telegram

import (
	"context"
	"sync"
	"time"
)

// Step identifies the stage of a multi-step input flow.
type Step int

const (
	StepNone Step = iota
	StepGiftName
	StepGiftPrice
	StepGiftCategory
	StepPledgeAmount
	StepBanTarget
	StepPromoteTarget
	StepBroadcastText
	StepFactText
)

// GiftDraft accumulates the fields of a gift proposal while the actor
// answers the three creation steps. Never persisted; abandoning the flow
// discards it without a store mutation.
type GiftDraft struct {
	Name  string
	Price *int
}

// Conversation is the per-actor scratch state of an in-flight multi-step
// flow.
type Conversation struct {
	Step      Step
	Draft     GiftDraft
	GiftID    int64
	StartedAt time.Time
}

// DefaultConversationTTL bounds how long an abandoned flow keeps its
// scratch state before the sweeper discards it.
const DefaultConversationTTL = 30 * time.Minute

// Conversations tracks in-flight multi-step flows keyed by actor id.
type Conversations struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[int64]*Conversation
}

// NewConversations creates a conversation tracker. A non-positive ttl
// falls back to DefaultConversationTTL.
func NewConversations(ttl time.Duration) *Conversations {
	if ttl <= 0 {
		ttl = DefaultConversationTTL
	}
	return &Conversations{
		ttl: ttl,
		m:   make(map[int64]*Conversation),
	}
}

// Begin starts (or restarts) a flow for the actor at the given step.
func (c *Conversations) Begin(userID int64, step Step) *Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := &Conversation{Step: step, StartedAt: time.Now()}
	c.m[userID] = conv
	return conv
}

// Get returns the actor's active conversation, or nil. Expired scratch
// state is discarded on access.
func (c *Conversations) Get(userID int64) *Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv, ok := c.m[userID]
	if !ok {
		return nil
	}
	if time.Since(conv.StartedAt) > c.ttl {
		delete(c.m, userID)
		return nil
	}
	return conv
}

// Clear discards the actor's scratch state. Safe to call when no flow is
// active.
func (c *Conversations) Clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}

// Len returns the number of active conversations.
func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// StartSweeper runs a background loop that discards expired scratch state,
// so abandoned flows do not accumulate. It blocks until the context is
// cancelled; launch it in a goroutine.
func (c *Conversations) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Conversations) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, conv := range c.m {
		if time.Since(conv.StartedAt) > c.ttl {
			delete(c.m, userID)
		}
	}
}
