package audit

import "context"

// Entry is one action-log row. EntityID is nil for actions that do not
// target a single entity.
type Entry struct {
	UserID   int64
	Action   string
	Entity   string
	EntityID *int64
}

// Recorder persists action-log entries. Recording is best effort: callers
// log failures instead of failing the request that triggered them.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
