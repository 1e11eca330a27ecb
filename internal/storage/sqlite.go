package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ravenmoor/chatwell/internal/models"
)

// ErrNotFound is returned when a lookup or delete matches no row.
var ErrNotFound = errors.New("storage: not found")

// StoredAnalysis is a persisted analysis snapshot for one conversation.
type StoredAnalysis struct {
	ConversationID int64                 `json:"conversation_id"`
	UserName       string                `json:"user_name"`
	Bundle         models.AnalysisBundle `json:"bundle"`
	CreatedAt      time.Time             `json:"created_at"`
}

type Store struct {
	writeDB *sql.DB // Single connection for writes
	readDB  *sql.DB // Pool of connections for reads
	dbPath  string
}

// NewStore opens (and if needed creates) the database at dbPath. An empty
// path falls back to ~/.chatwell/chatwell.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ".chatwell", "chatwell.db")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := DefaultOptions()
	opts.Path = dbPath

	// Open write connection (single connection)
	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open write database: %w", err)
	}
	writeDB.SetMaxOpenConns(1) // Only one write connection

	// Open read connection pool
	// Note: not ?mode=ro because the database might not exist yet
	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}
	readDB.SetMaxOpenConns(opts.ReadConns)
	readDB.SetMaxIdleConns(opts.ReadConns)

	store := &Store{
		writeDB: writeDB,
		readDB:  readDB,
		dbPath:  dbPath,
	}

	if err := store.applyPragmas(opts); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := store.createTables(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Path returns the resolved database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) applyPragmas(opts Options) error {
	for _, pragma := range opts.pragmas() {
		if _, err := s.writeDB.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) createTables() error {
	queries := []string{
		queryCreateConversationsTable,
		queryCreateMessagesTable,
		queryCreateRecordsTable,
		queryCreateAnalysesTable,
		queryCreateIndexMessagesConversation,
		queryCreateIndexConversationsUser,
		queryCreateIndexConversationsCreated,
		queryCreateIndexRecordsUser,
		queryCreateIndexRecordsTimestamp,
		queryCreateIndexAnalysesConversation,
		queryCreateMessagesFTS,
		queryCreateMessagesInsertTrigger,
		queryCreateMessagesDeleteTrigger,
		queryCreateMessagesUpdateTrigger,
	}

	for _, query := range queries {
		if _, err := s.writeDB.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// SaveConversation inserts the conversation and its messages in one
// transaction and back-fills conv.ID.
func (s *Store) SaveConversation(conv *models.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	// Timestamps land in the file as text, so range queries are only
	// sound when every stored value shares one zone.
	conv.CreatedAt = conv.CreatedAt.UTC()
	conv.UpdatedAt = conv.UpdatedAt.UTC()
	if len(conv.Messages) > 0 {
		conv.TotalMessages = len(conv.Messages)
	}

	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		queryInsertConversation,
		conv.UserID, conv.Title, conv.FormatDetected, conv.TotalMessages,
		conv.SourcePath, conv.ArchiveShard,
		conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return err
	}

	convID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	conv.ID = convID

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		if _, err := tx.Exec(
			queryInsertMessage,
			convID, msg.Sender, msg.Text, msg.Platform, msg.Timestamp.UTC(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetConversation loads one conversation with all of its messages.
func (s *Store) GetConversation(id int64) (*models.Conversation, error) {
	conv, err := scanConversation(s.readDB.QueryRow(querySelectConversation, id))
	if err != nil {
		return nil, err
	}

	rows, err := s.readDB.Query(querySelectMessages, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conv.Messages = []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.Sender, &msg.Text, &msg.Platform, &msg.Timestamp); err != nil {
			return nil, err
		}
		conv.Messages = append(conv.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conv, nil
}

// ListConversations returns a user's conversations newest first, without
// their messages.
func (s *Store) ListConversations(userID string, limit, offset int) ([]models.Conversation, error) {
	rows, err := s.readDB.Query(queryListConversations, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conversations, nil
}

// DeleteConversation removes the conversation; messages and analyses go
// with it through the cascade.
func (s *Store) DeleteConversation(id int64) error {
	result, err := s.writeDB.Exec(queryDeleteConversation, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameConversation updates the title and bumps updated_at.
func (s *Store) RenameConversation(id int64, title string) error {
	result, err := s.writeDB.Exec(queryUpdateConversationTitle, title, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveRecord persists one sentiment record, assigning its ID and
// CreatedAt when unset.
func (s *Store) SaveRecord(rec *models.SentimentRecord) error {
	prepareRecord(rec)

	emotions, emojiSignal, err := encodeRecordJSON(rec)
	if err != nil {
		return err
	}

	_, err = s.writeDB.Exec(
		queryInsertRecord,
		rec.ID, rec.UserID, rec.Text, rec.Sentiment, rec.Confidence,
		emotions, emojiSignal, rec.Source, rec.Timestamp, rec.CreatedAt,
	)
	return err
}

// SaveRecords persists a batch of records in one transaction. IDs are
// assigned in place.
func (s *Store) SaveRecords(recs []models.SentimentRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range recs {
		rec := &recs[i]
		prepareRecord(rec)

		emotions, emojiSignal, err := encodeRecordJSON(rec)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(
			queryInsertRecord,
			rec.ID, rec.UserID, rec.Text, rec.Sentiment, rec.Confidence,
			emotions, emojiSignal, rec.Source, rec.Timestamp, rec.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRecords returns a user's records newest first. With includeBulk
// false, records imported from transcripts are left out and only directly
// tracked ones are returned.
func (s *Store) ListRecords(userID string, limit, offset int, includeBulk bool) ([]models.SentimentRecord, error) {
	query := queryListRecords
	if !includeBulk {
		query = queryListRecordsNoBulk
	}

	rows, err := s.readDB.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecordsSince returns all of a user's records with a timestamp at or
// after since, oldest first. Every source is included.
func (s *Store) ListRecordsSince(userID string, since time.Time) ([]models.SentimentRecord, error) {
	rows, err := s.readDB.Query(queryListRecordsSince, userID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DeleteRecord removes one record. The user ID must match the stored one.
func (s *Store) DeleteRecord(id, userID string) error {
	result, err := s.writeDB.Exec(queryDeleteRecord, id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAnalysis stores an analysis snapshot for a conversation.
func (s *Store) SaveAnalysis(a *StoredAnalysis) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	bundle, err := json.Marshal(a.Bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = s.writeDB.Exec(queryInsertAnalysis, a.ConversationID, a.UserName, string(bundle), a.CreatedAt)
	return err
}

// LatestAnalysis returns the most recent snapshot for a conversation.
func (s *Store) LatestAnalysis(conversationID int64) (*StoredAnalysis, error) {
	var a StoredAnalysis
	var bundle string

	err := s.readDB.QueryRow(querySelectLatestAnalysis, conversationID).Scan(
		&a.ConversationID, &a.UserName, &bundle, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(bundle), &a.Bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &a, nil
}

// Search runs an FTS5 match over message contents and returns the owning
// conversations ranked best first.
func (s *Store) Search(query string, limit int) ([]models.SearchResult, error) {
	rows, err := s.readDB.Query(querySearchMessages, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		var content string

		err := rows.Scan(
			&result.Conversation.ID, &result.Conversation.UserID,
			&result.Conversation.Title, &result.Conversation.FormatDetected,
			&result.Conversation.TotalMessages, &result.Conversation.CreatedAt,
			&result.Conversation.UpdatedAt, &content, &result.Score,
		)
		if err != nil {
			return nil, err
		}

		result.Snippet = truncateContent(content, 200)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// GetStats aggregates totals across everything stored.
func (s *Store) GetStats() (*models.StoreStats, error) {
	stats := &models.StoreStats{
		SentimentBreakdown: make(map[string]int),
		PlatformBreakdown:  make(map[string]int),
	}

	if err := s.readDB.QueryRow(queryCountConversations).Scan(&stats.TotalConversations); err != nil {
		return nil, err
	}
	if err := s.readDB.QueryRow(queryCountMessages).Scan(&stats.TotalMessages); err != nil {
		return nil, err
	}
	if err := s.readDB.QueryRow(queryCountRecords).Scan(&stats.TotalRecords); err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := s.readDB.QueryRow(queryCountRecentRecords, weekAgo).Scan(&stats.RecordsThisWeek); err != nil {
		return nil, err
	}

	rows, err := s.readDB.Query(queryGroupBySentiment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sentiment string
		var count int
		if err := rows.Scan(&sentiment, &count); err == nil {
			stats.SentimentBreakdown[sentiment] = count
		}
	}

	rows, err = s.readDB.Query(queryGroupByPlatform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var platform string
		var count int
		if err := rows.Scan(&platform, &count); err == nil {
			stats.PlatformBreakdown[platform] = count
		}
	}

	return stats, nil
}

func (s *Store) Close() error {
	var errs []error

	// Run PRAGMA optimize before closing for better long-term performance
	if _, err := s.writeDB.Exec("PRAGMA optimize"); err != nil {
		errs = append(errs, fmt.Errorf("failed to optimize: %w", err))
	}

	if err := s.readDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close read db: %w", err))
	}

	if err := s.writeDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close write db: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	conv := &models.Conversation{}
	var sourcePath, archiveShard sql.NullString

	err := row.Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.FormatDetected,
		&conv.TotalMessages, &sourcePath, &archiveShard,
		&conv.CreatedAt, &conv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	conv.SourcePath = sourcePath.String
	conv.ArchiveShard = archiveShard.String
	return conv, nil
}

func scanRecords(rows *sql.Rows) ([]models.SentimentRecord, error) {
	var records []models.SentimentRecord
	for rows.Next() {
		var rec models.SentimentRecord
		var emotions string
		var emojiSignal sql.NullString

		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Text, &rec.Sentiment, &rec.Confidence,
			&emotions, &emojiSignal, &rec.Source, &rec.Timestamp, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if emotions != "" {
			if err := json.Unmarshal([]byte(emotions), &rec.Emotions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal emotions for record %s: %w", rec.ID, err)
			}
		}
		if emojiSignal.Valid && emojiSignal.String != "" {
			var sig models.EmojiSignal
			if err := json.Unmarshal([]byte(emojiSignal.String), &sig); err != nil {
				return nil, fmt.Errorf("failed to unmarshal emoji signal for record %s: %w", rec.ID, err)
			}
			rec.EmojiSignal = &sig
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func prepareRecord(rec *models.SentimentRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
}

func encodeRecordJSON(rec *models.SentimentRecord) (emotions string, emojiSignal interface{}, err error) {
	data, err := json.Marshal(rec.Emotions)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal emotions: %w", err)
	}
	emotions = string(data)

	if rec.EmojiSignal == nil {
		return emotions, nil, nil
	}

	sig, err := json.Marshal(rec.EmojiSignal)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal emoji signal: %w", err)
	}
	return emotions, string(sig), nil
}

func truncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return strings.TrimSpace(content[:maxLen]) + "..."
}
