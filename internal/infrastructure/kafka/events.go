package kafka

// EscrowEvent is emitted on every escrow status change, after the transition
// has committed. Consumers (notification bots, analytics) must tolerate
// duplicates: publishing is at-least-once and never blocks the state machine.
type EscrowEvent struct {
	EventID   string `json:"event_id"`
	ListingID uint64 `json:"listing_id"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Status    string `json:"status"`
	StxAmount uint64 `json:"stx_amount"`
	BtcAmount uint64 `json:"btc_amount"`
	BtcTxRef  string `json:"btc_tx_ref,omitempty"`
}

type DisputeEvent struct {
	EventID   string `json:"event_id"`
	DisputeID string `json:"dispute_id"`
	ListingID uint64 `json:"listing_id"`
	Initiator string `json:"initiator"`
	Reason    string `json:"reason"`
	Resolved  bool   `json:"resolved"`
}
