package repository

import (
	"context"
	"errors"

	"goose_server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// Save upserts the full game snapshot. The in-memory engine is authoritative;
// this copy exists for durability and history queries.
func (r *GameRepository) Save(ctx context.Context, g *domain.Game) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO games
		   (id, player_a_id, player_b_id, position_a, position_b,
		    turn_owner, extra_turns_a, extra_turns_b, status, winner_id,
		    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   player_b_id = EXCLUDED.player_b_id,
		   position_a = EXCLUDED.position_a,
		   position_b = EXCLUDED.position_b,
		   turn_owner = EXCLUDED.turn_owner,
		   extra_turns_a = EXCLUDED.extra_turns_a,
		   extra_turns_b = EXCLUDED.extra_turns_b,
		   status = EXCLUDED.status,
		   winner_id = EXCLUDED.winner_id,
		   updated_at = EXCLUDED.updated_at`,
		g.ID, g.PlayerAID, nullableID(g.PlayerBID), g.PositionA, g.PositionB,
		nullableID(g.TurnOwner), g.ExtraTurnsA, g.ExtraTurnsB, g.Status, g.WinnerID,
		g.CreatedAt, g.UpdatedAt,
	)
	return err
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, player_a_id, COALESCE(player_b_id, 0), position_a, position_b,
		        COALESCE(turn_owner, 0), extra_turns_a, extra_turns_b, status, winner_id,
		        created_at, updated_at
		 FROM games
		 WHERE id = $1`,
		id,
	)

	var g domain.Game
	if err := row.Scan(
		&g.ID, &g.PlayerAID, &g.PlayerBID, &g.PositionA, &g.PositionB,
		&g.TurnOwner, &g.ExtraTurnsA, &g.ExtraTurnsB, &g.Status, &g.WinnerID,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// GetByUser returns a user's finished games, most recent first.
func (r *GameRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.Game, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_a_id, COALESCE(player_b_id, 0), position_a, position_b,
		        COALESCE(turn_owner, 0), extra_turns_a, extra_turns_b, status, winner_id,
		        created_at, updated_at
		 FROM games
		 WHERE status = $1 AND (player_a_id = $2 OR player_b_id = $2)
		 ORDER BY updated_at DESC
		 LIMIT $3`,
		domain.GameFinished, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// ListActive returns unfinished games, most recently updated first.
// Used at startup inspection and by ops tooling; live queries go to the engine.
func (r *GameRepository) ListActive(ctx context.Context, limit int) ([]*domain.Game, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_a_id, COALESCE(player_b_id, 0), position_a, position_b,
		        COALESCE(turn_owner, 0), extra_turns_a, extra_turns_b, status, winner_id,
		        created_at, updated_at
		 FROM games
		 WHERE status != $1
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		domain.GameFinished, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func scanGames(rows pgx.Rows) ([]*domain.Game, error) {
	var res []*domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(
			&g.ID, &g.PlayerAID, &g.PlayerBID, &g.PositionA, &g.PositionB,
			&g.TurnOwner, &g.ExtraTurnsA, &g.ExtraTurnsB, &g.Status, &g.WinnerID,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &g)
	}
	return res, rows.Err()
}

// nullableID maps the 0 "empty slot" sentinel to SQL NULL.
func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
