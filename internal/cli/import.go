package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/classify"
	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/scanner"
	"github.com/ravenmoor/chatwell/internal/storage"
)

func NewImportCommand() *cobra.Command {
	var scanRoot string
	var fromArchive bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import chat transcript exports",
		Long: `Import chat exports into the local database. Each file is format-detected,
parsed, preserved verbatim in the archive, and your own messages are run
through sentiment classification.

Passing '-' reads a single transcript from stdin.`,
		Example: `  # Import a WhatsApp export
  chatwell import chat.txt

  # Import several exports at once
  chatwell import family.txt work.json

  # Pipe a transcript in
  cat chat.txt | chatwell import -

  # Find and import every export under a directory
  chatwell import --scan ~/Downloads

  # Rebuild a fresh database from the archive
  chatwell import --from-archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromArchive {
				if len(args) > 0 || scanRoot != "" {
					return fmt.Errorf("--from-archive cannot be combined with files or --scan")
				}
				return runImportFromArchive(cmd.Context())
			}
			if scanRoot != "" {
				return runImportScan(cmd.Context(), scanRoot)
			}
			if len(args) == 0 {
				return fmt.Errorf("nothing to import: pass files, '-' for stdin, or --scan")
			}
			return runImportFiles(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&scanRoot, "scan", "", "Scan a directory tree for transcript exports")
	cmd.Flags().BoolVar(&fromArchive, "from-archive", false, "Re-import transcripts preserved in the archive")

	return cmd
}

func runImportFiles(ctx context.Context, paths []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	arch, err := newArchiveWriter()
	if err != nil {
		return err
	}
	defer arch.Close()

	imp := newImporter(store, arch)
	return importPaths(ctx, imp, paths)
}

func runImportScan(ctx context.Context, root string) error {
	validator := NewValidator()
	if err := validator.ValidateDirectory(root); err != nil {
		return err
	}

	candidates, err := scanner.Scan(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if len(candidates) == 0 {
		fmt.Printf("No transcript exports found under %s.\n", root)
		return nil
	}

	if !jsonOut {
		fmt.Printf("Found %d candidate file(s) under %s\n\n", len(candidates), root)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	arch, err := newArchiveWriter()
	if err != nil {
		return err
	}
	defer arch.Close()

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}

	imp := newImporter(store, arch)
	return importPaths(ctx, imp, paths)
}

// importPaths runs every path through the importer, warning and moving on
// when one file fails so a bad export cannot sink a whole batch.
func importPaths(ctx context.Context, imp *importer.Importer, paths []string) error {
	var results []importer.Result
	imported, skipped, failed := 0, 0, 0

	for _, path := range paths {
		result, err := importOnePath(ctx, imp, path)
		switch {
		case errors.Is(err, importer.ErrDuplicate):
			skipped++
			if !jsonOut {
				fmt.Printf("Skipping %s: identical content already imported\n", path)
			}
		case err != nil:
			failed++
			if !jsonOut {
				fmt.Printf("  Warning: %s: %v\n", path, err)
			}
		default:
			imported++
			results = append(results, *result)
			if !jsonOut {
				printImportResult(result)
			}
		}
	}

	if jsonOut {
		return printJSON(results)
	}

	if imported == 0 && skipped == 0 {
		return fmt.Errorf("no files could be imported")
	}

	fmt.Printf("\n✓ Successfully imported %d file(s)", imported)
	if skipped > 0 {
		fmt.Printf(", %d duplicate(s) skipped", skipped)
	}
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

func importOnePath(ctx context.Context, imp *importer.Importer, path string) (*importer.Result, error) {
	if path == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return imp.Import(ctx, "stdin", string(content))
	}

	validator := NewValidator()
	if err := validator.ValidateFile(path); err != nil {
		return nil, err
	}
	return imp.ImportFile(ctx, path)
}

func printImportResult(result *importer.Result) {
	conv := result.Conversation
	fmt.Printf("✓ Imported %s (ID: %d)\n", conv.Title, conv.ID)
	fmt.Printf("  Format: %s\n", result.Format)
	fmt.Printf("  Messages: %d\n", len(conv.Messages))
	if result.Classified > 0 || result.SkippedShort > 0 || result.SkippedNeutral > 0 {
		fmt.Printf("  Classified: %d (skipped %d short, %d low-confidence neutral)\n",
			result.Classified, result.SkippedShort, result.SkippedNeutral)
	}
	if result.Shard != "" {
		fmt.Printf("  Archived to: %s\n", result.Shard)
	}
}

// runImportFromArchive replays preserved raw transcripts through the
// current parser and classifier. The importer gets no archive writer so
// nothing is preserved twice. Meant for fresh databases; tracked single
// messages are replayed as records and will duplicate if run twice.
func runImportFromArchive(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	it, err := archive.NewIterator(cfg.ArchiveDir)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer it.Close()

	imp := newImporter(store, nil)
	classifier := newClassifier()

	conversations, records, skipped, failed := 0, 0, 0, 0
	for {
		entry, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		switch entry.Source {
		case models.SourceSingle:
			if err := replaySingle(ctx, store, classifier, entry); err != nil {
				failed++
				fmt.Printf("  Warning: tracked message %s: %v\n", shortSHA(entry.SHA), err)
				continue
			}
			records++
		default:
			source := "archive:" + shortSHA(entry.SHA)
			result, err := imp.Import(ctx, source, entry.Raw)
			if errors.Is(err, importer.ErrDuplicate) {
				skipped++
				continue
			}
			if err != nil {
				failed++
				fmt.Printf("  Warning: %s: %v\n", source, err)
				continue
			}
			conversations++
			records += result.Classified
		}
	}

	if conversations == 0 && records == 0 && skipped == 0 {
		fmt.Println("Archive is empty, nothing to re-import.")
		return nil
	}

	fmt.Printf("✓ Re-imported %d conversation(s) and %d record(s) from the archive", conversations, records)
	if skipped > 0 {
		fmt.Printf(", %d duplicate(s) skipped", skipped)
	}
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

func replaySingle(ctx context.Context, store *storage.Store, classifier classify.Classifier, entry *archive.Entry) error {
	record := classifier.Classify(ctx, entry.Raw)
	record.UserID = entry.UserID
	record.Text = entry.Raw
	record.Source = models.SourceSingle
	record.Timestamp = time.Unix(entry.Timestamp, 0)
	return store.SaveRecord(&record)
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
