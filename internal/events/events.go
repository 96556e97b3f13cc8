package events

import "context"

// Event types
const (
	EventUserRegistered    = "user_registered"
	EventBalanceChanged    = "balance_changed"
	EventRewardDistributed = "reward_distributed"
	EventDropDistributed   = "drop_distributed"
)

// StreamLedger carries all balance/reward events for the live feed.
const StreamLedger = "events:ledger"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
