package repository

import (
	"context"
	"errors"

	"goose_server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRequestNotFound = errors.New("friend request not found")

type FriendRequestRepository struct {
	db *pgxpool.Pool
}

func NewFriendRequestRepository(db *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

func (r *FriendRequestRepository) Create(ctx context.Context, fr *domain.FriendRequest) error {
	fr.Status = domain.FriendRequestPending
	return r.db.QueryRow(ctx,
		`INSERT INTO friend_requests (sender_id, receiver_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (sender_id, receiver_id) DO UPDATE SET status = $3
		 RETURNING id, created_at`,
		fr.SenderID, fr.ReceiverID, fr.Status,
	).Scan(&fr.ID, &fr.CreatedAt)
}

func (r *FriendRequestRepository) UpdateStatus(ctx context.Context, senderID, receiverID int64, status domain.FriendRequestStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE friend_requests SET status = $1
		 WHERE sender_id = $2 AND receiver_id = $3 AND status = $4`,
		status, senderID, receiverID, domain.FriendRequestPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// ListPendingForReceiver returns inbound requests awaiting an answer.
func (r *FriendRequestRepository) ListPendingForReceiver(ctx context.Context, receiverID int64) ([]*domain.FriendRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests
		 WHERE receiver_id = $1 AND status = $2
		 ORDER BY created_at DESC`,
		receiverID, domain.FriendRequestPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.FriendRequest
	for rows.Next() {
		var fr domain.FriendRequest
		if err := rows.Scan(&fr.ID, &fr.SenderID, &fr.ReceiverID, &fr.Status, &fr.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &fr)
	}
	return res, rows.Err()
}
