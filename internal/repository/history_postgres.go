package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/models"
)

// PostgresHistoryStore persists analysis records per user. Insertion order is
// preserved by an auto-incrementing position column.
type PostgresHistoryStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresHistoryStore(db *sql.DB, logger zerolog.Logger) *PostgresHistoryStore {
	return &PostgresHistoryStore{db: db, logger: logger}
}

func (s *PostgresHistoryStore) Append(ctx context.Context, email string, record *models.AnalysisRecord) error {
	citations, err := json.Marshal(record.Citations)
	if err != nil {
		return fmt.Errorf("failed to marshal citations: %w", err)
	}

	query := `
		INSERT INTO analysis_history
			(id, user_email, username, title, word_count, summary, plagiarism_score, citations, generated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := s.db.ExecContext(ctx, query,
		record.ID,
		email,
		record.Username,
		record.Title,
		record.WordCount,
		record.Summary,
		record.PlagiarismScore,
		citations,
		record.GeneratedOn,
	); err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	return nil
}

func (s *PostgresHistoryStore) List(ctx context.Context, email string) ([]*models.AnalysisRecord, error) {
	query := `
		SELECT id, username, title, word_count, summary, plagiarism_score, citations, generated_on
		FROM analysis_history
		WHERE user_email = $1
		ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		var record models.AnalysisRecord
		var citations []byte
		if err := rows.Scan(
			&record.ID,
			&record.Username,
			&record.Title,
			&record.WordCount,
			&record.Summary,
			&record.PlagiarismScore,
			&citations,
			&record.GeneratedOn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		if len(citations) > 0 {
			if err := json.Unmarshal(citations, &record.Citations); err != nil {
				s.logger.Warn().Err(err).Str("record_id", record.ID).Msg("Corrupt citations column")
			}
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
