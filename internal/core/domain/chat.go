package domain

import (
	"cmp"
	"slices"
)

// ChatMessage is one entry of a room log. ID is assigned by the realtime store.
type ChatMessage struct {
	ID        string `json:"id" bson:"-"`
	Text      string `json:"text" bson:"text"`
	Sender    string `json:"sender" bson:"sender"`
	Receiver  string `json:"receiver" bson:"receiver"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

const roomPrefix = "admin-"

// RoomID returns the room shared by current and other. Residents always talk
// to the admin, so their room depends only on their own username.
func RoomID(current, other string) string {
	if current == AdminUsername {
		return roomPrefix + other
	}
	return roomPrefix + current
}

// RoomPath is the key of the room log in the realtime store.
func RoomPath(roomID string) string {
	return "chats/" + roomID
}

// DisplayOrder returns a copy of a room snapshot with the newest entry first.
// Entries are ordered by timestamp; equal timestamps keep store order.
func DisplayOrder(snapshot []ChatMessage) []ChatMessage {
	out := slices.Clone(snapshot)
	slices.SortStableFunc(out, func(a, b ChatMessage) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	slices.Reverse(out)
	return out
}
