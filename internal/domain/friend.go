package domain

import "time"

// FriendRequestStatus - lifecycle of a friendship request
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID         int64               `db:"id" json:"id"`
	SenderID   int64               `db:"sender_id" json:"sender_id"`
	ReceiverID int64               `db:"receiver_id" json:"receiver_id"`
	Status     FriendRequestStatus `db:"status" json:"status"`
	CreatedAt  time.Time           `db:"created_at" json:"created_at"`
}
