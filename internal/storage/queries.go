package storage

// Database schema queries
const (
	queryCreateConversationsTable = `CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		format_detected TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		source_path TEXT,
		archive_shard TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	queryCreateMessagesTable = `CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL,
		sender TEXT NOT NULL,
		content TEXT NOT NULL,
		platform TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	)`

	queryCreateRecordsTable = `CREATE TABLE IF NOT EXISTS sentiment_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		confidence REAL NOT NULL,
		emotions TEXT NOT NULL,
		emoji_signal TEXT,
		source TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	queryCreateAnalysesTable = `CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		bundle TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	)`

	queryCreateMessagesFTS = `CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
		content,
		content=messages,
		content_rowid=id
	)`

	queryCreateIndexMessagesConversation = `CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`
	queryCreateIndexConversationsUser    = `CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id)`
	queryCreateIndexConversationsCreated = `CREATE INDEX IF NOT EXISTS idx_conversations_created ON conversations(created_at)`
	queryCreateIndexRecordsUser          = `CREATE INDEX IF NOT EXISTS idx_records_user ON sentiment_records(user_id)`
	queryCreateIndexRecordsTimestamp     = `CREATE INDEX IF NOT EXISTS idx_records_timestamp ON sentiment_records(timestamp)`
	queryCreateIndexAnalysesConversation = `CREATE INDEX IF NOT EXISTS idx_analyses_conversation ON analyses(conversation_id)`

	queryCreateMessagesInsertTrigger = `CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages
	BEGIN
		INSERT INTO messages_fts(rowid, content) VALUES (new.id, new.content);
	END`

	queryCreateMessagesDeleteTrigger = `CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages
	BEGIN
		DELETE FROM messages_fts WHERE rowid = old.id;
	END`

	queryCreateMessagesUpdateTrigger = `CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages
	BEGIN
		UPDATE messages_fts SET content = new.content WHERE rowid = new.id;
	END`

	queryInsertConversation = `INSERT INTO conversations (user_id, title, format_detected, message_count, source_path, archive_shard, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryInsertMessage = `INSERT INTO messages (conversation_id, sender, content, platform, timestamp)
		VALUES (?, ?, ?, ?, ?)`

	querySelectConversation = `SELECT id, user_id, title, format_detected, message_count, source_path, archive_shard, created_at, updated_at
		FROM conversations WHERE id = ?`

	querySelectMessages = `SELECT sender, content, platform, timestamp
		FROM messages WHERE conversation_id = ? ORDER BY timestamp, id`

	queryListConversations = `SELECT id, user_id, title, format_detected, message_count, source_path, archive_shard, created_at, updated_at
		FROM conversations WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	queryDeleteConversation = `DELETE FROM conversations WHERE id = ?`

	queryUpdateConversationTitle = `UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`

	queryInsertRecord = `INSERT INTO sentiment_records (id, user_id, message, sentiment, confidence, emotions, emoji_signal, source, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	querySelectRecordColumns = `SELECT id, user_id, message, sentiment, confidence, emotions, emoji_signal, source, timestamp, created_at
		FROM sentiment_records`

	queryListRecords = querySelectRecordColumns + ` WHERE user_id = ?
		ORDER BY timestamp DESC, created_at DESC LIMIT ? OFFSET ?`

	queryListRecordsNoBulk = querySelectRecordColumns + ` WHERE user_id = ? AND source != 'bulk_import'
		ORDER BY timestamp DESC, created_at DESC LIMIT ? OFFSET ?`

	queryListRecordsSince = querySelectRecordColumns + ` WHERE user_id = ? AND timestamp >= ?
		ORDER BY timestamp, created_at`

	queryDeleteRecord = `DELETE FROM sentiment_records WHERE id = ? AND user_id = ?`

	queryInsertAnalysis = `INSERT INTO analyses (conversation_id, user_name, bundle, created_at)
		VALUES (?, ?, ?, ?)`

	querySelectLatestAnalysis = `SELECT conversation_id, user_name, bundle, created_at
		FROM analyses WHERE conversation_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`

	querySearchMessages = `
		SELECT DISTINCT
			c.id, c.user_id, c.title, c.format_detected, c.message_count, c.created_at, c.updated_at,
			m.content, bm25(messages_fts) as score
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.id
		JOIN conversations c ON m.conversation_id = c.id
		WHERE messages_fts MATCH ?
		ORDER BY score
		LIMIT ?`

	queryCountConversations = `SELECT COUNT(*) FROM conversations`
	queryCountMessages      = `SELECT COUNT(*) FROM messages`
	queryCountRecords       = `SELECT COUNT(*) FROM sentiment_records`
	queryCountRecentRecords = `SELECT COUNT(*) FROM sentiment_records WHERE timestamp >= ?`
	queryGroupBySentiment   = `SELECT sentiment, COUNT(*) FROM sentiment_records GROUP BY sentiment`
	queryGroupByPlatform    = `SELECT platform, COUNT(*) FROM messages GROUP BY platform`
)
