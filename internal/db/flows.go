package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"questflow/internal/model"

	"github.com/google/uuid"
)

// ErrFlowNotFound is returned when no library entry matches.
var ErrFlowNotFound = errors.New("flow not found")

// ListFlows retrieves library entries, newest first, optionally filtered.
func ListFlows(db *sql.DB, filter string) ([]model.FlowRow, error) {
	query := `
		SELECT id, title, quest, author, row_count, updated_at
		FROM flows
		WHERE (? = '' OR title LIKE '%' || ? || '%' OR quest LIKE '%' || ? || '%' OR author LIKE '%' || ? || '%')
		ORDER BY updated_at DESC, title
	`

	rows, err := db.Query(query, filter, filter, filter, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer rows.Close()

	var results []model.FlowRow
	for rows.Next() {
		var r model.FlowRow
		var updatedAt string
		if err := rows.Scan(&r.ID, &r.Title, &r.Quest, &r.Author, &r.RowCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flow row: %w", err)
		}
		r.UpdatedAt = parseTime(updatedAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flow rows: %w", err)
	}

	return results, nil
}

// GetFlow retrieves a single library entry by ID.
func GetFlow(db *sql.DB, id string) (model.StoredFlow, error) {
	return scanStoredFlow(db.QueryRow(`
		SELECT id, body, created_at, updated_at
		FROM flows
		WHERE id = ?
	`, id))
}

// GetFlowByTitle retrieves the most recently updated entry with this title.
func GetFlowByTitle(db *sql.DB, title string) (model.StoredFlow, error) {
	return scanStoredFlow(db.QueryRow(`
		SELECT id, body, created_at, updated_at
		FROM flows
		WHERE title = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, title))
}

// SaveFlow inserts or replaces a library entry. An empty id creates a new
// entry; the returned id identifies it either way.
func SaveFlow(db *sql.DB, id string, f model.Flow) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	body, err := model.MarshalFlow(f)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO flows (id, title, quest, author, row_count, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			quest = excluded.quest,
			author = excluded.author,
			row_count = excluded.row_count,
			body = excluded.body,
			updated_at = excluded.updated_at
	`
	if _, err := db.Exec(query, id, f.Title, f.Quest, f.Author, len(f.Flow), string(body), now, now); err != nil {
		return "", fmt.Errorf("failed to save flow: %w", err)
	}
	return id, nil
}

// DeleteFlow deletes a library entry.
func DeleteFlow(db *sql.DB, id string) error {
	res, err := db.Exec("DELETE FROM flows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to delete flow %s: %w", id, ErrFlowNotFound)
	}
	return nil
}

func scanStoredFlow(row *sql.Row) (model.StoredFlow, error) {
	var s model.StoredFlow
	var body, createdAt, updatedAt string
	if err := row.Scan(&s.ID, &body, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StoredFlow{}, ErrFlowNotFound
		}
		return model.StoredFlow{}, fmt.Errorf("failed to get flow: %w", err)
	}

	f, err := model.UnmarshalFlow([]byte(body))
	if err != nil {
		return model.StoredFlow{}, fmt.Errorf("stored flow %s: %w", s.ID, err)
	}
	s.Flow = f
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
