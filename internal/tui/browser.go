// Package tui is the interactive conversation browser: a list of imported
// conversations on the left, the transcript or its analysis on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ravenmoor/chatwell/internal/analyzer"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	youStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	otherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00BFFF"))

	healthyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	concerningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))

	unhealthyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4040"))
)

type Browser struct {
	store    *storage.Store
	userName string
}

func NewBrowser(store *storage.Store, userName string) *Browser {
	return &Browser{store: store, userName: userName}
}

func (b *Browser) Run() error {
	m := initialModel(b.store, b.userName)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

type listItem struct {
	conversation models.Conversation
}

func (i listItem) FilterValue() string {
	return i.conversation.Title
}

func (i listItem) Title() string {
	return i.conversation.Title
}

func (i listItem) Description() string {
	return fmt.Sprintf("%s | %d msgs | %s",
		i.conversation.FormatDetected,
		i.conversation.TotalMessages,
		i.conversation.CreatedAt.Format("2006-01-02 15:04"))
}

type model struct {
	store        *storage.Store
	userName     string
	list         list.Model
	viewport     viewport.Model
	selectedConv *models.Conversation
	bundle       *models.AnalysisBundle
	showAnalysis bool
	width        int
	height       int
	ready        bool
	err          error
}

func initialModel(store *storage.Store, userName string) model {
	items := []list.Item{}

	owner := userName
	if owner == "" {
		owner = models.DefaultUserID
	}
	conversations, err := store.ListConversations(owner, 100, 0)
	if err == nil {
		for _, conv := range conversations {
			items = append(items, listItem{conversation: conv})
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Conversations"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	vp := viewport.New(0, 0)
	vp.SetContent("Select a conversation to view")

	return model{
		store:    store,
		userName: userName,
		list:     l,
		viewport: vp,
		err:      err,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.ready = true
		}

		listWidth := m.width / 3
		m.list.SetSize(listWidth, m.height-2)

		m.viewport.Width = m.width - listWidth - 4
		m.viewport.Height = m.height - 4

	case tea.KeyMsg:
		// While the list filter is open, every key belongs to it.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				conv, err := m.store.GetConversation(item.conversation.ID)
				if err == nil {
					m.selectedConv = conv
					m.bundle = nil
					m.showAnalysis = false
					m.updateViewport()
				}
			}

		case "a":
			if m.selectedConv != nil {
				m.showAnalysis = !m.showAnalysis
				m.updateViewport()
			}

		case "?":
			m.showKeyHelp()

		case "esc":
			if m.showAnalysis {
				m.showAnalysis = false
				m.updateViewport()
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) updateViewport() {
	if m.selectedConv == nil {
		m.viewport.SetContent("Select a conversation to view")
		return
	}

	if m.showAnalysis {
		if m.bundle == nil {
			bundle := analyzer.Analyze(m.selectedConv.Messages, m.userName)
			m.bundle = &bundle
		}
		m.viewport.SetContent(analysisContent(m.selectedConv, *m.bundle))
	} else {
		m.viewport.SetContent(transcriptContent(m.selectedConv, m.userName))
	}
	m.viewport.GotoTop()
}

func transcriptContent(conv *models.Conversation, userName string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(conv.Title))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Format: %s\n", conv.FormatDetected))
	content.WriteString(fmt.Sprintf("Messages: %d\n", len(conv.Messages)))
	content.WriteString(fmt.Sprintf("Imported: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05")))
	if conv.ArchiveShard != "" {
		content.WriteString(fmt.Sprintf("Archive: %s\n", conv.ArchiveShard))
	}
	content.WriteString("\n" + strings.Repeat("─", 40) + "\n\n")

	for _, msg := range conv.Messages {
		label := fmt.Sprintf("[%s] %s:", msg.Timestamp.Format("Jan 2 15:04"), msg.Sender)
		if msg.Sender == userName {
			content.WriteString(youStyle.Render(label))
		} else {
			content.WriteString(otherStyle.Render(label))
		}
		content.WriteString("\n")
		content.WriteString(msg.Text)
		content.WriteString("\n\n")
	}

	return content.String()
}

func analysisContent(conv *models.Conversation, bundle models.AnalysisBundle) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("Analysis: " + conv.Title))
	content.WriteString("\n\n")

	if health := bundle.RedFlags.OverallHealth; health != "" {
		content.WriteString("Health: ")
		content.WriteString(healthStyle(health).Render(health))
		content.WriteString("\n\n")
	}

	period := bundle.ConversationPeriod
	if !period.Start.IsZero() {
		content.WriteString(fmt.Sprintf("Period: %s to %s (%d days)\n\n",
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"), period.DurationDays))
	}

	content.WriteString("Messages:\n")
	content.WriteString(fmt.Sprintf("  Total: %d\n", bundle.BasicStats.TotalMessages))
	for _, p := range bundle.Participants {
		name := p.Name
		if p.Role == models.RoleYou {
			name += " (you)"
		}
		content.WriteString(fmt.Sprintf("  %s: %d\n", name, p.MessageCount))
	}

	if len(bundle.SentimentAnalysis) > 0 {
		content.WriteString("\nSentiment:\n")
		for _, p := range bundle.Participants {
			s, ok := bundle.SentimentAnalysis[p.Name]
			if !ok {
				continue
			}
			content.WriteString(fmt.Sprintf("  %s: %.0f%% positive, %.0f%% negative, %.0f%% neutral\n",
				p.Name, s.PositiveRatio*100, s.NegativeRatio*100, s.NeutralRatio*100))
		}
	}

	if len(bundle.EngagementMetrics.ResponseTimeAnalysis) > 0 {
		content.WriteString("\nResponse times:\n")
		for _, p := range bundle.Participants {
			rt, ok := bundle.EngagementMetrics.ResponseTimeAnalysis[p.Name]
			if !ok {
				continue
			}
			content.WriteString(fmt.Sprintf("  %s: avg %.1f min, median %.1f min\n",
				p.Name, rt.AverageMinutes, rt.MedianMinutes))
		}
	}

	appendFindings := func(header string, findings []models.Finding) {
		if len(findings) == 0 {
			return
		}
		content.WriteString("\n" + header + "\n")
		for _, f := range findings {
			content.WriteString(fmt.Sprintf("  [%s] %s\n", f.Severity, f.Description))
			if f.Suggestion != "" {
				content.WriteString(fmt.Sprintf("       Suggestion: %s\n", f.Suggestion))
			}
		}
	}
	appendFindings(fmt.Sprintf("Red flags (%d):", bundle.RedFlags.TotalRedFlags), bundle.RedFlags.RedFlags)
	appendFindings(fmt.Sprintf("Warnings (%d):", bundle.RedFlags.TotalWarnings), bundle.RedFlags.Warnings)

	return content.String()
}

func healthStyle(health string) lipgloss.Style {
	switch health {
	case models.HealthHealthy:
		return healthyStyle
	case models.HealthConcerning:
		return concerningStyle
	default:
		return unhealthyStyle
	}
}

func (m *model) showKeyHelp() {
	help := `
Keys:

  j/k or ↑/↓     - Navigate list
  enter          - Open conversation
  a              - Toggle analysis view
  /              - Filter list
  ?              - Show this help
  esc            - Back to transcript
  q              - Quit
`
	m.viewport.SetContent(help)
	m.viewport.GotoTop()
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.err)
	}

	listView := paneStyle.
		Width(m.width/3 - 2).
		Height(m.height - 2).
		Render(m.list.View())

	contentView := paneStyle.
		Width(m.width - m.width/3 - 2).
		Height(m.height - 2).
		Render(m.viewport.View())

	help := helpStyle.Render("  j/k: navigate • enter: open • a: analysis • /: filter • ?: help • q: quit")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listView,
		contentView,
	) + "\n" + help
}
