package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainings/internal/domain"
)

// TrainingStore implements domain.TrainingStore over a SQL database.
type TrainingStore struct {
	db *DB
}

func NewTrainingStore(db *DB) *TrainingStore {
	return &TrainingStore{db: db}
}

func (s *TrainingStore) GetTraining(ctx context.Context, id string) (*domain.Training, error) {
	t := &domain.Training{}
	var content string
	err := s.db.Conn().QueryRowContext(ctx, s.db.rebind(
		`SELECT id, company_id, title, content_json, updated_at FROM trainings WHERE id = ?`), id,
	).Scan(&t.ID, &t.CompanyID, &t.Title, &content, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get training: %w", err)
	}
	if t.Document, err = domain.ParseDocument([]byte(content)); err != nil {
		return nil, fmt.Errorf("training %s: %w", id, err)
	}
	return t, nil
}

func (s *TrainingStore) SaveTraining(ctx context.Context, t *domain.Training) error {
	doc := t.Document
	if doc == nil {
		doc = domain.NewDocument()
	}
	content, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("encode training: %w", err)
	}
	t.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO trainings (id, company_id, title, content_json, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET company_id = excluded.company_id, title = excluded.title,
		content_json = excluded.content_json, updated_at = excluded.updated_at`
	if s.db.Driver() == DriverMySQL {
		query = `INSERT INTO trainings (id, company_id, title, content_json, updated_at) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE company_id = VALUES(company_id), title = VALUES(title),
		content_json = VALUES(content_json), updated_at = VALUES(updated_at)`
	}
	if _, err := s.db.Conn().ExecContext(ctx, s.db.rebind(query),
		t.ID, t.CompanyID, t.Title, string(content), t.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save training: %w", err)
	}
	return nil
}

func (s *TrainingStore) ListTrainings(ctx context.Context, companyID string) ([]domain.TrainingSummary, error) {
	rows, err := s.db.Conn().QueryContext(ctx, s.db.rebind(
		`SELECT id, company_id, title, updated_at FROM trainings WHERE company_id = ? ORDER BY updated_at DESC`),
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	defer rows.Close()

	var out []domain.TrainingSummary
	for rows.Next() {
		var t domain.TrainingSummary
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Title, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TrainingStore) Close() error {
	return s.db.Close()
}
