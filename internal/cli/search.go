package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/search"
)

func NewSearchCommand() *cobra.Command {
	var limit int
	var showContext bool
	var filterFormat string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across imported messages",
		Long:  `Search every imported message with full-text matching, ranked by relevance.`,
		Example: `  # Search for a phrase
  chatwell search "birthday dinner"

  # Only hits from WhatsApp imports, with full context
  chatwell search hike --format whatsapp --context`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), limit, showContext, filterFormat)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	cmd.Flags().BoolVar(&showContext, "context", false, "Show full message context")
	cmd.Flags().StringVar(&filterFormat, "format", "", "Filter by detected format (whatsapp, telegram, generic)")

	return cmd
}

func runSearch(query string, limit int, showContext bool, filterFormat string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	searcher := search.NewSearcher(store)
	results, err := searcher.SearchWithFilters(query, limit, search.Filters{
		UserID: userID(),
		Format: filterFormat,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOut {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d result(s) for '%s':\n\n", len(results), query)

	for i, result := range results {
		fmt.Printf("%d. [ID: %d] %s\n", i+1, result.Conversation.ID, result.Conversation.Title)
		fmt.Printf("   Format: %s | %s\n",
			result.Conversation.FormatDetected, result.Conversation.CreatedAt.Format("2006-01-02 15:04"))

		if showContext {
			fmt.Printf("\n   %s\n", strings.ReplaceAll(result.Snippet, "\n", "\n   "))
		} else {
			snippet := result.Snippet
			if len(snippet) > 100 {
				snippet = snippet[:100] + "..."
			}
			fmt.Printf("   %s\n", snippet)
		}
		fmt.Println()
	}

	return nil
}
