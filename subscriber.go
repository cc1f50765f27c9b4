package prefcenter

import "context"

// Email format preferences accepted by the subscription backend.
const (
	FormatHTML = "html"
	FormatText = "text"
)

// Subscriber is a snapshot of a user's record on the subscription backend.
// It is fetched per request using the management token and never persisted
// locally.
type Subscriber struct {
	Email       string   `json:"email"`
	Token       string   `json:"token"`
	Lang        string   `json:"lang"`
	Format      string   `json:"format"`
	Country     string   `json:"country"`
	Newsletters []string `json:"newsletters"`
	Created     string   `json:"created-date"`
}

// Subscribed reports whether the subscriber currently receives the given newsletter.
func (s *Subscriber) Subscribed(id string) bool {
	for _, n := range s.Newsletters {
		if n == id {
			return true
		}
	}
	return false
}

// UserUpdate is a partial update of a subscriber record. Empty string fields
// are left out of the remote call. Newsletters, when non-nil, replaces the
// full membership list; nil leaves it untouched.
type UserUpdate struct {
	Lang        string
	Format      string
	Country     string
	Newsletters []string
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.Lang == "" && u.Format == "" && u.Country == "" && u.Newsletters == nil
}

// SubscribeOptions are the optional fields on a single-newsletter signup.
type SubscribeOptions struct {
	Format    string
	Country   string
	Lang      string
	SourceURL string
}

// SubscriberService is the interface that wraps the remote subscription
// backend. Every method can fail with a *NetworkError (backend unreachable)
// or a *RemoteError (backend rejected the request with a status code).
type SubscriberService interface {
	// Confirm marks a pending signup as confirmed and returns the backend
	// status string ("ok" on success).
	Confirm(ctx context.Context, token string) (string, error)

	// User fetches the current subscriber record for the token.
	User(ctx context.Context, token string) (*Subscriber, error)

	// UpdateUser applies a partial update to the subscriber record.
	UpdateUser(ctx context.Context, token string, update UserUpdate) error

	// Unsubscribe removes all subscriptions. optout signals a global
	// opt-out to the backend rather than a per-newsletter removal.
	Unsubscribe(ctx context.Context, token, email string, optout bool) error

	// Subscribe creates a new subscription for the email address.
	Subscribe(ctx context.Context, email, newsletterID string, opts SubscribeOptions) error

	// SendRecoveryMessage asks the backend to email the user a link to
	// their preference center.
	SendRecoveryMessage(ctx context.Context, email string) error

	// CustomUnsubReason records the user's free-text reason for opting out.
	CustomUnsubReason(ctx context.Context, token, reason string) error
}
