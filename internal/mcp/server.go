// Package mcp exposes chatwell over the Model Context Protocol so AI
// assistants can analyze transcripts and track feelings against the
// local database.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ravenmoor/chatwell/internal/advice"
	"github.com/ravenmoor/chatwell/internal/analyzer"
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/classify"
	"github.com/ravenmoor/chatwell/internal/emotions"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

// historyLimit bounds how much history the aggregate tools load.
const historyLimit = 5000

// Server wraps the store and classifier and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	store      *storage.Store
	classifier classify.Classifier
	userName   string
}

// NewServer creates an MCP server backed by the given store and classifier.
func NewServer(store *storage.Store, cls classify.Classifier, userName string) *Server {
	s := &Server{
		store:      store,
		classifier: cls,
		userName:   userName,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "chatwell", Version: "0.1.0"},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves MCP over stdio, blocking until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

func (s *Server) userID() string {
	if s.userName == "" {
		return models.DefaultUserID
	}
	return s.userName
}

// --- Tool input/output types ---

type analyzeChatInput struct {
	Content string `json:"content" jsonschema:"required,the raw chat export text (WhatsApp, Telegram, or generic sender: text lines)"`
}

type analyzeChatOutput struct {
	Format        string                                 `json:"format"`
	TotalMessages int                                    `json:"total_messages"`
	DurationDays  int                                    `json:"duration_days"`
	Participants  []models.Participant                   `json:"participants"`
	OverallHealth string                                 `json:"overall_health"`
	RedFlags      []models.Finding                       `json:"red_flags,omitempty"`
	Warnings      []models.Finding                       `json:"warnings,omitempty"`
	Sentiment     map[string]models.ParticipantSentiment `json:"sentiment,omitempty"`
}

type emotionalSummaryInput struct{}

type getRecommendationsInput struct {
	Max int `json:"max,omitempty" jsonschema:"maximum number of suggestions to return (default 8)"`
}

type getRecommendationsOutput struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}

type trackFeelingInput struct {
	Text string `json:"text" jsonschema:"required,the message or feeling to classify and record"`
}

type trackFeelingOutput struct {
	ID         string             `json:"id"`
	Sentiment  string             `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Emotions   map[string]float64 `json:"emotions,omitempty"`
}

type wellbeingDashboardInput struct{}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "analyze_chat",
		Description: "Analyze a raw chat export. Returns participants, message stats, sentiment per participant, and relationship health findings.",
	}, s.handleAnalyzeChat)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "emotional_summary",
		Description: "Summarize the user's recorded emotional history: dominant emotions, sentiment trend, and pattern type.",
	}, s.handleEmotionalSummary)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_recommendations",
		Description: "Get ranked wellbeing recommendations derived from the user's recorded history.",
	}, s.handleGetRecommendations)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "track_feeling",
		Description: "Classify a message or feeling and store it in the user's sentiment history.",
	}, s.handleTrackFeeling)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "wellbeing_dashboard",
		Description: "Get the wellbeing dashboard: score, risk level, communication frequency, and sentiment distribution.",
	}, s.handleWellbeingDashboard)
}

// --- Tool handlers ---

func (s *Server) handleAnalyzeChat(_ context.Context, _ *gomcp.CallToolRequest, input analyzeChatInput) (*gomcp.CallToolResult, analyzeChatOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return errorResult("content is required"), analyzeChatOutput{}, nil
	}

	msgs, format := chatlog.Parse(input.Content, "")
	if len(msgs) == 0 {
		return errorResult(fmt.Sprintf("no messages recognized (detected format %s)", format)), analyzeChatOutput{}, nil
	}

	bundle := analyzer.Analyze(msgs, s.userName)

	out := analyzeChatOutput{
		Format:        format,
		TotalMessages: bundle.BasicStats.TotalMessages,
		DurationDays:  bundle.ConversationPeriod.DurationDays,
		Participants:  bundle.Participants,
		OverallHealth: bundle.RedFlags.OverallHealth,
		RedFlags:      bundle.RedFlags.RedFlags,
		Warnings:      bundle.RedFlags.Warnings,
		Sentiment:     bundle.SentimentAnalysis,
	}
	return nil, out, nil
}

func (s *Server) handleEmotionalSummary(_ context.Context, _ *gomcp.CallToolRequest, _ emotionalSummaryInput) (*gomcp.CallToolResult, models.PatternSummary, error) {
	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		return errorResult(fmt.Sprintf("listing records: %s", err)), models.PatternSummary{}, nil
	}

	return nil, emotions.Summarize(records), nil
}

func (s *Server) handleGetRecommendations(_ context.Context, _ *gomcp.CallToolRequest, input getRecommendationsInput) (*gomcp.CallToolResult, getRecommendationsOutput, error) {
	maxSuggestions := input.Max
	if maxSuggestions <= 0 {
		maxSuggestions = advice.DefaultMaxSuggestions
	}

	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		return errorResult(fmt.Sprintf("listing records: %s", err)), getRecommendationsOutput{}, nil
	}

	recs := advice.Recommend(emotions.Summarize(records), maxSuggestions)
	out := getRecommendationsOutput{
		Recommendations: recs,
		Count:           len(recs),
	}
	return nil, out, nil
}

func (s *Server) handleTrackFeeling(ctx context.Context, _ *gomcp.CallToolRequest, input trackFeelingInput) (*gomcp.CallToolResult, trackFeelingOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return errorResult("text is required"), trackFeelingOutput{}, nil
	}

	record := s.classifier.Classify(ctx, text)
	record.UserID = s.userID()
	record.Text = text
	record.Source = models.SourceSingle
	record.Timestamp = time.Now()

	if err := s.store.SaveRecord(&record); err != nil {
		return errorResult(fmt.Sprintf("saving record: %s", err)), trackFeelingOutput{}, nil
	}

	out := trackFeelingOutput{
		ID:         record.ID,
		Sentiment:  record.Sentiment,
		Confidence: record.Confidence,
		Emotions:   record.Emotions,
	}
	return nil, out, nil
}

func (s *Server) handleWellbeingDashboard(_ context.Context, _ *gomcp.CallToolRequest, _ wellbeingDashboardInput) (*gomcp.CallToolResult, wellbeing.Dashboard, error) {
	records, err := s.store.ListRecords(s.userID(), historyLimit, 0, true)
	if err != nil {
		return errorResult(fmt.Sprintf("listing records: %s", err)), wellbeing.Dashboard{}, nil
	}

	return nil, wellbeing.BuildDashboard(records), nil
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
