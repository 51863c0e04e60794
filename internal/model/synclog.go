package model

import (
	"time"

	"github.com/google/uuid"
)

// SyncKind classifies a synchronization attempt.
type SyncKind string

const (
	SyncFull            SyncKind = "full"
	SyncPartial         SyncKind = "partial"
	SyncPullFromClient  SyncKind = "pull-from-client"
	SyncPushToClient    SyncKind = "push-to-client"
	SyncMetadataRefresh SyncKind = "metadata-refresh"
)

// ValidSyncKinds is the allowed sync_kind value set.
var ValidSyncKinds = map[SyncKind]bool{
	SyncFull:            true,
	SyncPartial:         true,
	SyncPullFromClient:  true,
	SyncPushToClient:    true,
	SyncMetadataRefresh: true,
}

// SyncStatus is the per-log state machine:
// pending -> success, or pending -> failed. Terminal states never change;
// retrying a failed sync creates a new log entry.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s SyncStatus) Terminal() bool {
	return s == SyncSuccess || s == SyncFailed
}

// SyncCounters summarizes a successful batch. Counters are only meaningful
// when the log resolved to success.
type SyncCounters struct {
	Synced  int `json:"synced"`
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

// ClientMeta is optional client context recorded on a sync log. The IP is
// hashed before it gets here; the raw address is never stored.
type ClientMeta struct {
	IPHash    string
	UserAgent string
}

// SyncLog is one append-only audit record of a synchronization attempt.
type SyncLog struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     string       `json:"-"`
	Kind        SyncKind     `json:"kind"`
	Status      SyncStatus   `json:"status"`
	Counters    SyncCounters `json:"counters"`
	ErrorDetail *string      `json:"errorDetail,omitempty"`
	IPHash      *string      `json:"-"`
	UserAgent   *string      `json:"userAgent,omitempty"`
	OccurredAt  time.Time    `json:"occurredAt"`
	ResolvedAt  *time.Time   `json:"resolvedAt,omitempty"`
}

// SnapshotEntry is one channel in a client-provided full-sync snapshot.
type SnapshotEntry struct {
	ChannelID       string `json:"channelId"`
	ChannelName     string `json:"channelName"`
	ChannelURL      string `json:"channelUrl,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	SubscriberCount *int64 `json:"subscriberCount,omitempty"`
	VideoCount      *int64 `json:"videoCount,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// Partial-sync instruction ops.
const (
	SyncOpAdd    = "add"
	SyncOpUpdate = "update"
	SyncOpRemove = "remove"
)

// SyncInstruction is one explicit change in a partial sync batch.
type SyncInstruction struct {
	Op      string        `json:"op"`
	Channel SnapshotEntry `json:"channel"`
	Patch   *ChannelPatch `json:"patch,omitempty"`
}

// SyncResult is what a sync entry point hands back to the API layer: the
// final state of the log recorded for the attempt.
type SyncResult struct {
	Log SyncLog `json:"log"`
}
