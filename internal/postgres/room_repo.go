package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	members, err := json.Marshal(room.Members)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO rooms (name, language, level, max_members, members, owner)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		room.Name, room.Language, room.Level, room.MaxMembers, members, room.Owner).
		Scan(&room.ID, &room.CreatedAt)
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	var rm domain.Room
	query := `SELECT id, name, language, level, max_members, members, owner, created_at FROM rooms WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).
		Scan(&rm.ID, &rm.Name, &rm.Language, &rm.Level, &rm.MaxMembers, &rm.Members, &rm.Owner, &rm.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// AddMember — атомарное append-unique: участник добавляется одним UPDATE
// и только если точно такой записи ещё нет в массиве. Никакого
// read-modify-write всего массива на клиенте.
func (r *RoomRepository) AddMember(ctx context.Context, roomID string, m domain.Member) error {
	member, err := json.Marshal(m)
	if err != nil {
		return err
	}
	query := `
		UPDATE rooms
		SET members = members || $2::jsonb
		WHERE id = $1
		  AND NOT (members @> jsonb_build_array($2::jsonb))`
	// 0 строк = уже участник либо комната удалена; для append-unique это no-op
	_, err = r.db.Exec(ctx, query, roomID, member)
	return err
}

// RemoveMember — удаление по значению: совпасть должна вся запись участника.
func (r *RoomRepository) RemoveMember(ctx context.Context, roomID string, m domain.Member) error {
	member, err := json.Marshal(m)
	if err != nil {
		return err
	}
	query := `
		UPDATE rooms
		SET members = (
			SELECT COALESCE(jsonb_agg(el), '[]'::jsonb)
			FROM jsonb_array_elements(members) AS el
			WHERE el <> $2::jsonb
		)
		WHERE id = $1 AND members @> jsonb_build_array($2::jsonb)`
	cmd, err := r.db.Exec(ctx, query, roomID, member)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	return nil
}

func (r *RoomRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Room, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, name, language, level, max_members, members, owner, created_at
		FROM rooms
		WHERE ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND id < $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	rooms, err := scanRooms(rows)
	if err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(rooms) == limit {
		last := rooms[len(rooms)-1]
		nextCursor, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rooms, nextCursor, nil
}

// CreatedBetween возвращает комнаты с after < created_at <= until.
// Окно для sweep-а: свежее after не смотрим вообще, старше until не трогаем.
func (r *RoomRepository) CreatedBetween(ctx context.Context, after, until time.Time) ([]domain.Room, error) {
	query := `
		SELECT id, name, language, level, max_members, members, owner, created_at
		FROM rooms
		WHERE created_at > $1 AND created_at <= $2
		ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, after, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	return err
}

// DeleteBatch — одна атомарная операция на весь набор.
// Сообщения уходят каскадом (см. migrations/001_init.sql).
func (r *RoomRepository) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = ANY($1)`, ids)
	return err
}

func scanRooms(rows pgx.Rows) ([]domain.Room, error) {
	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Language, &rm.Level, &rm.MaxMembers, &rm.Members, &rm.Owner, &rm.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}
