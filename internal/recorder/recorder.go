package recorder

// FeedbackRecord is a user's free-text reaction to a recommendation.
type FeedbackRecord struct {
	SessionID string
	ChatID    int64
	Text      string
}

// SnapshotRecord is one instrument's quote within a scheduled market
// snapshot. Nil fields were unavailable at fetch time.
type SnapshotRecord struct {
	Outlook          string
	VolatilityIndex  *float64
	Ticker           string
	Price            *float64
	ChangePct        *float64
	Volume           *float64
	ThreeMonthReturn *float64
}

// Recorder persists feedback and market history for analysis. Generated
// recommendations themselves are never stored.
type Recorder interface {
	RecordFeedback(rec *FeedbackRecord) error
	RecordSnapshot(recs []*SnapshotRecord) error
	Close() error
}
