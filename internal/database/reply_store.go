package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/buzzwatch/buzzwatch/internal/models"
)

// ReplyStore persists drafted replies and the up/down feedback users leave
// on them.
type ReplyStore struct {
	db *DB
}

func NewReplyStore(db *DB) *ReplyStore {
	return &ReplyStore{db: db}
}

func (s *ReplyStore) Create(ctx context.Context, params models.CreateReplyParams) (*models.Reply, error) {
	reply := &models.Reply{
		ID:        uuid.New().String(),
		URL:       params.URL,
		Platform:  params.Platform,
		Content:   params.Content,
		Tone:      params.Tone,
		CreatedAt: time.Now().UTC(),
	}

	query := s.db.Rebind(`
		INSERT INTO replies (id, url, platform, content, tone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		reply.ID, reply.URL, string(reply.Platform), reply.Content, reply.Tone, reply.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}
	return reply, nil
}

func (s *ReplyStore) ListByURL(ctx context.Context, url string) ([]models.Reply, error) {
	query := s.db.Rebind(`
		SELECT id, url, platform, content, tone, created_at
		FROM replies
		WHERE url = ?
		ORDER BY created_at DESC`)

	rows, err := s.db.QueryxContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	var out []models.Reply
	for rows.Next() {
		var r models.Reply
		var platform string
		if err := rows.Scan(&r.ID, &r.URL, &platform, &r.Content, &r.Tone, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		r.Platform = models.Platform(platform)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddFeedback records a rating for a reply. The reply must exist; a foreign
// key violation surfaces as an error.
func (s *ReplyStore) AddFeedback(ctx context.Context, params models.CreateFeedbackParams) (*models.ReplyFeedback, error) {
	fb := &models.ReplyFeedback{
		ReplyID:   params.ReplyID,
		Rating:    params.Rating,
		Comment:   params.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if s.db.Driver() == DriverPostgres {
		query := s.db.Rebind(`
			INSERT INTO reply_feedback (reply_id, rating, comment, created_at)
			VALUES (?, ?, ?, ?)
			RETURNING id`)
		row := s.db.QueryRowxContext(ctx, query, fb.ReplyID, fb.Rating, fb.Comment, fb.CreatedAt)
		if err := row.Scan(&fb.ID); err != nil {
			return nil, fmt.Errorf("failed to insert feedback: %w", err)
		}
		return fb, nil
	}

	query := s.db.Rebind(`
		INSERT INTO reply_feedback (reply_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?)`)
	res, err := s.db.ExecContext(ctx, query, fb.ReplyID, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}
	fb.ID = id
	return fb, nil
}

func (s *ReplyStore) ListFeedback(ctx context.Context, replyID string) ([]models.ReplyFeedback, error) {
	query := s.db.Rebind(`
		SELECT id, reply_id, rating, comment, created_at
		FROM reply_feedback
		WHERE reply_id = ?
		ORDER BY created_at DESC, id DESC`)

	rows, err := s.db.QueryxContext(ctx, query, replyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var out []models.ReplyFeedback
	for rows.Next() {
		var fb models.ReplyFeedback
		if err := rows.Scan(&fb.ID, &fb.ReplyID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
