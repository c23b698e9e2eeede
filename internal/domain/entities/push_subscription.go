package entities

import (
	"encoding/json"
	"errors"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PushSubscription is one push delivery endpoint descriptor as produced by
// the browser Push API. The service never interprets it; the raw JSON is
// kept as received.
type PushSubscription json.RawMessage

// MarshalJSON returns the descriptor unchanged
func (p PushSubscription) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON stores a copy of data
func (p *PushSubscription) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("entities.PushSubscription: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[0:0], data...)
	return nil
}

// WebPush decodes the descriptor as a Web Push subscription. It fails for
// descriptors that do not follow the Push API shape, which is allowed.
func (p PushSubscription) WebPush() (*webpush.Subscription, error) {
	var sub webpush.Subscription
	if err := json.Unmarshal(p, &sub); err != nil {
		return nil, fmt.Errorf("descriptor is not a web push subscription: %w", err)
	}
	if sub.Endpoint == "" {
		return nil, errors.New("descriptor has no endpoint")
	}
	return &sub, nil
}

// Subscriptions is the ordered list of descriptors stored for one identifier.
// Duplicates are kept.
type Subscriptions []PushSubscription

// IsEmpty reports whether there is nothing to store
func (s Subscriptions) IsEmpty() bool {
	return len(s) == 0
}
