package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 提交状态
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusPartial    = "partial" // 原行已更新，追加失败
	StatusFailed     = "failed"
)

// Submission 提交日志
type Submission struct {
	ID                  string     `json:"id"`
	Rater               string     `json:"rater"`
	Scope               string     `json:"scope"`
	SpreadsheetID       string     `json:"spreadsheetId"`
	EssayID             string     `json:"essayId"`
	CommentIDs          []string   `json:"commentIds"`
	OriginalRowsUpdated int        `json:"originalRowsUpdated"`
	NewRowsAdded        int        `json:"newRowsAdded"`
	Status              string     `json:"status"`
	ErrorMessage        string     `json:"errorMessage,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// SubmissionFilter 查询条件
type SubmissionFilter struct {
	Rater string
	Limit int
}

// CreateSubmission 创建提交日志，返回 submission id
func (s *Store) CreateSubmission(rater, scope, spreadsheetID, essayID string, commentIDs []string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO submissions (id, rater, scope, spreadsheet_id, essay_id, comment_ids, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, rater, scope, spreadsheetID, essayID, strings.Join(commentIDs, ","), StatusProcessing, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	return id, nil
}

// FinishSubmission 完成提交日志更新
func (s *Store) FinishSubmission(id string, originalRowsUpdated, newRowsAdded int, status, errorMessage string) error {
	res, err := s.db.Exec(`
		UPDATE submissions SET
			original_rows_updated = ?,
			new_rows_added = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, originalRowsUpdated, newRowsAdded, status, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %s not found", id)
	}
	return nil
}

// ListSubmissions 按创建时间倒序列出提交日志
func (s *Store) ListSubmissions(filter SubmissionFilter) ([]Submission, error) {
	query := `
		SELECT id, rater, scope, spreadsheet_id, essay_id, comment_ids,
			original_rows_updated, new_rows_added, status, error_message,
			created_at, completed_at
		FROM submissions`
	var args []interface{}
	if filter.Rater != "" {
		query += " WHERE rater = ?"
		args = append(args, filter.Rater)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]Submission, 0)
	for rows.Next() {
		var (
			sub         Submission
			commentIDs  string
			completedAt sql.NullTime
		)
		if err := rows.Scan(
			&sub.ID, &sub.Rater, &sub.Scope, &sub.SpreadsheetID, &sub.EssayID, &commentIDs,
			&sub.OriginalRowsUpdated, &sub.NewRowsAdded, &sub.Status, &sub.ErrorMessage,
			&sub.CreatedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if commentIDs != "" {
			sub.CommentIDs = strings.Split(commentIDs, ",")
		}
		if completedAt.Valid {
			t := completedAt.Time
			sub.CompletedAt = &t
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
