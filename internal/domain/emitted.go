package domain

// EmittedEvent is the stored form of a domain event, flattened for
// external indexing. Corresponds to emitted_events table in ClickHouse.
type EmittedEvent struct {
	Kind      string // event name, e.g. "TokenMinted"
	Token     string // owning token address
	Payload   string // JSON-encoded event body
	EmittedAt int64  // Unix timestamp in seconds
}
