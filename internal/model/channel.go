package model

import "time"

// ChannelRecord is one whitelisted YouTube channel for one user.
// (OwnerID, ChannelID) is unique; the same external channel may be tracked
// independently by any number of users.
type ChannelRecord struct {
	ID              int64      `json:"-"`
	OwnerID         string     `json:"-"`
	ChannelID       string     `json:"channelId"`
	ChannelName     string     `json:"channelName"`
	ChannelURL      string     `json:"channelUrl,omitempty"`
	ThumbnailURL    string     `json:"thumbnailUrl,omitempty"`
	SubscriberCount *int64     `json:"subscriberCount,omitempty"`
	VideoCount      *int64     `json:"videoCount,omitempty"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	LastCheckedAt   *time.Time `json:"lastCheckedAt,omitempty"`
}

// AddChannelRequest is the API request body for whitelisting a channel.
// Subscriber/video counts are unknown until the metadata fetcher runs, so
// both are optional.
type AddChannelRequest struct {
	ChannelID       string `json:"channelId"`
	ChannelName     string `json:"channelName"`
	ChannelURL      string `json:"channelUrl,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	SubscriberCount *int64 `json:"subscriberCount,omitempty"`
	VideoCount      *int64 `json:"videoCount,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// ChannelPatch is a partial update; nil fields are left untouched.
type ChannelPatch struct {
	ChannelName     *string `json:"channelName,omitempty"`
	ChannelURL      *string `json:"channelUrl,omitempty"`
	ThumbnailURL    *string `json:"thumbnailUrl,omitempty"`
	SubscriberCount *int64  `json:"subscriberCount,omitempty"`
	VideoCount      *int64  `json:"videoCount,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ChannelPatch) IsEmpty() bool {
	return p.ChannelName == nil && p.ChannelURL == nil && p.ThumbnailURL == nil &&
		p.SubscriberCount == nil && p.VideoCount == nil && p.IsActive == nil
}

// ChannelListFilter narrows ListByOwner results.
type ChannelListFilter struct {
	Active *bool
}
