package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ravenmoor/chatwell/internal/advice"
	"github.com/ravenmoor/chatwell/internal/analyzer"
	"github.com/ravenmoor/chatwell/internal/emotions"
	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/scanner"
	"github.com/ravenmoor/chatwell/internal/storage"
	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

// historyLimit bounds how much history the aggregate endpoints load.
const historyLimit = 5000

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	conversations, err := s.store.ListConversations(s.userID(), limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"conversations": conversations,
		"limit":         limit,
		"offset":        offset,
		"total":         len(conversations),
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conv, err := s.store.GetConversation(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	respondWithJSON(w, http.StatusOK, conv)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := s.store.GetConversation(id); err != nil {
		respondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err := s.store.DeleteConversation(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleAnalysis computes the bundle fresh on every call; ?save=true also
// persists the result like the CLI's analyze --save.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conv, err := s.store.GetConversation(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	bundle := analyzer.Analyze(conv.Messages, s.userName)

	if r.URL.Query().Get("save") == "true" {
		stored := &storage.StoredAnalysis{
			ConversationID: id,
			UserName:       s.userName,
			Bundle:         bundle,
		}
		if err := s.store.SaveAnalysis(stored); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to save analysis")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	includeBulk := r.URL.Query().Get("all") == "true"

	records, err := s.store.ListRecords(s.userID(), limit, offset, includeBulk)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"limit":   limit,
		"offset":  offset,
		"total":   len(records),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	respondWithJSON(w, http.StatusOK, emotions.Summarize(records))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	maxSuggestions := queryInt(r, "max", advice.DefaultMaxSuggestions)

	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	recs := advice.Recommend(emotions.Summarize(records), maxSuggestions)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"total":           len(recs),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	respondWithJSON(w, http.StatusOK, wellbeing.BuildDashboard(records))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	timeRange := r.URL.Query().Get("range")
	if timeRange == "" {
		timeRange = "30d"
	}

	cutoff, err := wellbeing.ParseTimeRange(timeRange, time.Now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.ListRecordsSince(s.userID(), cutoff)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	respondWithJSON(w, http.StatusOK, wellbeing.BuildMoodTrends(records, timeRange))
}

// handleImport accepts a transcript either as a multipart "file" field or
// as the raw request body, and runs it through the shared import pipeline.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, scanner.MaxExportSize)

	content, sourcePath, err := readTranscript(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.importer.Import(r.Context(), sourcePath, content)
	if errors.Is(err, importer.ErrDuplicate) {
		respondWithError(w, http.StatusConflict, "Transcript already imported")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

func readTranscript(r *http.Request) (content, sourcePath string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", errors.New("multipart request needs a \"file\" field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", errors.New("failed to read uploaded file")
		}
		return string(data), header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", errors.New("failed to read request body")
	}
	return string(data), "api", nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
