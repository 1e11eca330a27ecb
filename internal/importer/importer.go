// Package importer runs the transcript import pipeline: parse a raw chat
// export, persist the conversation with its messages, classify the current
// user's own messages into sentiment records, and preserve the raw text in
// the archive. The CLI import command, the watch daemon and the HTTP import
// endpoint all funnel through here.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/classify"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/scanner"
	"github.com/ravenmoor/chatwell/internal/storage"
)

// ErrDuplicate reports a transcript whose exact content was already
// imported during this process lifetime.
var ErrDuplicate = errors.New("importer: duplicate transcript")

// Classification filters. Messages under minClassifyWords words carry no
// emotional signal unless they lean on an emoji or strong punctuation,
// and neutral results below minNeutralConfidence are not worth storing.
const (
	minClassifyWords     = 3
	minNeutralConfidence = 0.6
)

const maxTitleNames = 3

// Importer turns raw chat exports into stored conversations, sentiment
// records and archived transcripts. A nil archive writer disables
// preservation. An empty user name disables classification: when nobody
// matches the user by exact sender name, no message is scored.
type Importer struct {
	store      *storage.Store
	classifier classify.Classifier
	archive    *archive.Writer
	userName   string

	mu   sync.Mutex
	seen map[string]struct{}
}

func New(store *storage.Store, cls classify.Classifier, arch *archive.Writer, userName string) *Importer {
	return &Importer{
		store:      store,
		classifier: cls,
		archive:    arch,
		userName:   userName,
		seen:       make(map[string]struct{}),
	}
}

// Result reports what one import produced.
type Result struct {
	Conversation   *models.Conversation `json:"conversation"`
	Format         string               `json:"format"`
	Classified     int                  `json:"classified"`
	SkippedShort   int                  `json:"skipped_short"`
	SkippedNeutral int                  `json:"skipped_neutral"`
	Shard          string               `json:"shard,omitempty"`
}

// ImportFile imports one export file from disk.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > scanner.MaxExportSize {
		return nil, fmt.Errorf("%s is %d bytes, over the %d byte import limit", path, info.Size(), scanner.MaxExportSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return imp.Import(ctx, path, string(data))
}

// Import runs the pipeline on transcript content. sourcePath is recorded
// on the conversation and may be empty for content that never touched
// disk (stdin, request bodies).
func (imp *Importer) Import(ctx context.Context, sourcePath, content string) (*Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty transcript")
	}

	sha := archive.Fingerprint(content)
	if imp.alreadySeen(sha) {
		return nil, ErrDuplicate
	}

	msgs, format := chatlog.Parse(content, "")
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages recognized (detected format %s)", format)
	}

	conv := &models.Conversation{
		UserID:         imp.userID(),
		Title:          titleFor(msgs, imp.userName, sourcePath),
		FormatDetected: format,
		SourcePath:     sourcePath,
		Messages:       msgs,
	}

	// Preservation failing should not lose the import itself; the
	// conversation just carries no shard reference.
	if imp.archive != nil {
		shard, err := imp.archive.Append(archive.Entry{
			UserID:   conv.UserID,
			Source:   models.SourceBulkImport,
			Platform: format,
			SHA:      sha,
			Raw:      content,
		})
		if err != nil {
			log.Printf("Failed to archive transcript: %v", err)
		} else {
			conv.ArchiveShard = shard
		}
	}

	if err := imp.store.SaveConversation(conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	res := &Result{Conversation: conv, Format: format, Shard: conv.ArchiveShard}

	if imp.userName != "" {
		records, err := imp.classifyOwn(ctx, msgs, res)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			if err := imp.store.SaveRecords(records); err != nil {
				return nil, fmt.Errorf("save sentiment records: %w", err)
			}
		}
	}

	imp.markSeen(sha)
	return res, nil
}

// classifyOwn scores the user's own messages. Other participants are
// never classified; their tone belongs to the conversation analysis,
// not to the user's history.
func (imp *Importer) classifyOwn(ctx context.Context, msgs []models.Message, res *Result) ([]models.SentimentRecord, error) {
	var records []models.SentimentRecord
	for _, msg := range msgs {
		if msg.Sender != imp.userName {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !worthClassifying(msg.Text) {
			res.SkippedShort++
			continue
		}
		rec := imp.classifier.Classify(ctx, msg.Text)
		if rec.Sentiment == models.SentimentNeutral && rec.Confidence < minNeutralConfidence {
			res.SkippedNeutral++
			continue
		}
		rec.UserID = imp.userID()
		rec.Text = msg.Text
		rec.Source = models.SourceBulkImport
		rec.Timestamp = msg.Timestamp
		records = append(records, rec)
		res.Classified++
	}
	return records, nil
}

// worthClassifying filters messages too short to carry emotional signal:
// under three words with no emoji and no strong punctuation.
func worthClassifying(text string) bool {
	if chatlog.FieldCount(text) >= minClassifyWords {
		return true
	}
	return chatlog.HasEmoji(text) || strings.ContainsAny(text, "!?")
}

// userID keys stored rows. An unnamed user still owns conversations.
func (imp *Importer) userID() string {
	if imp.userName == "" {
		return models.DefaultUserID
	}
	return imp.userName
}

// titleFor names the conversation after the other participants, falling
// back to the file name when every sender is the user or nobody parsed.
func titleFor(msgs []models.Message, userName, sourcePath string) string {
	var others []string
	seen := make(map[string]struct{})
	for _, msg := range msgs {
		if msg.Sender == userName || msg.Sender == "" {
			continue
		}
		if _, ok := seen[msg.Sender]; ok {
			continue
		}
		seen[msg.Sender] = struct{}{}
		others = append(others, msg.Sender)
	}
	if len(others) > 0 {
		suffix := ""
		if len(others) > maxTitleNames {
			others = others[:maxTitleNames]
			suffix = " and others"
		}
		return "Chat with " + strings.Join(others, ", ") + suffix
	}
	if sourcePath != "" {
		base := filepath.Base(sourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Imported conversation"
}

func (imp *Importer) alreadySeen(sha string) bool {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	_, ok := imp.seen[sha]
	return ok
}

func (imp *Importer) markSeen(sha string) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	imp.seen[sha] = struct{}{}
}
