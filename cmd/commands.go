package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"questflow/internal/db"
	"questflow/internal/editor"
	"questflow/internal/logging"
	"questflow/internal/model"
	"questflow/internal/paste"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listFilter    string
	importReplace bool
	exportOutput  string
	pasteField    string
	newTitle      string
	newQuest      string
	newAuthor     string
	newOutput     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List flows saved in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var importCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Save flow JSON files into the library",
	Long: `Reads each flow JSON file and saves it as a library entry.

With --replace, an existing entry with the same title is overwritten
instead of adding a second one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [id|title]",
	Short: "Write a library flow as JSON",
	Long: `Looks the flow up by library ID, then by title, and writes it as JSON.

The default output is <export_dir>/<title>.json. Use -o - for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Map tab-separated text from stdin onto action rows",
	Long: `Reads spreadsheet text from stdin the way a paste into the action table
does, and prints the mapped rows as JSON.

Example:
  pbpaste | questflow paste --field prediction`,
	Args: cobra.NoArgs,
	RunE: runPaste,
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Write an empty flow JSON file",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only list flows whose title, quest or author contains this text")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Overwrite an entry with the same title")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, or - for stdout")
	pasteCmd.Flags().StringVar(&pasteField, "field", model.FieldHP, "Column the first pasted cell lands in")
	newCmd.Flags().StringVar(&newTitle, "title", "", "Flow title")
	newCmd.Flags().StringVar(&newQuest, "quest", "", "Quest name")
	newCmd.Flags().StringVar(&newAuthor, "author", "", "Author")
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "Output file, or - for stdout")
}

// withLibrary opens the config, a console logger and the database for a
// subcommand.
func withLibrary(fn func(env *cliEnv) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewConsole(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(&cliEnv{db: database, exportDir: cfg.ExportDir, logger: logger})
}

func runList(cmd *cobra.Command, args []string) error {
	return withLibrary(func(env *cliEnv) error {
		rows, err := db.ListFlows(env.db, listFilter)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved flows.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderFlowList(rows))
		return nil
	})
}

func renderFlowList(rows []model.FlowRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "QUEST", "AUTHOR", "ROWS", "UPDATED")
	for _, r := range rows {
		t.Row(
			r.ID[:min(8, len(r.ID))],
			r.Title,
			r.Quest,
			r.Author,
			strconv.Itoa(r.RowCount),
			r.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return t.Render()
}

func runImport(cmd *cobra.Command, args []string) error {
	return withLibrary(func(env *cliEnv) error {
		for _, path := range args {
			id, f, err := env.importFile(path, importReplace)
			if err != nil {
				return err
			}
			env.logger.Info("imported flow", zap.String("path", path), zap.String("id", id))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s)\n", displayTitle(f), id)
		}
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	return withLibrary(func(env *cliEnv) error {
		stored, err := env.lookup(args[0])
		if err != nil {
			return err
		}
		if exportOutput == "-" {
			return model.EncodeFlow(cmd.OutOrStdout(), stored.Flow)
		}
		path := exportOutput
		if path == "" {
			path = filepath.Join(env.exportDir, model.Filename(stored.Flow))
		}
		if err := model.WriteFile(path, stored.Flow); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", displayTitle(stored.Flow), path)
		return nil
	})
}

func runPaste(cmd *cobra.Command, args []string) error {
	rows, err := mapPastedText(cmd.InOrStdin(), pasteField)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// mapPastedText parses r as spreadsheet text and maps it onto action rows
// starting at field.
func mapPastedText(r io.Reader, field string) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	rows, err := paste.MapRows(paste.ParseTSV(string(data)), field, model.ActionFields)
	if err != nil {
		return nil, fmt.Errorf("failed to map pasted text: %w", err)
	}
	return rows, nil
}

func runNew(cmd *cobra.Command, args []string) error {
	f := newFlow(newTitle, newQuest, newAuthor, time.Now())
	if newOutput == "-" {
		return model.EncodeFlow(cmd.OutOrStdout(), f)
	}
	path := newOutput
	if path == "" {
		path = model.Filename(f)
	}
	if err := model.WriteFile(path, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func newFlow(title, quest, author string, now time.Time) model.Flow {
	f := model.NewFlow()
	f.Title = title
	f.Quest = quest
	f.Author = author
	f.UpdateDate = now.Format(editor.UpdateDateLayout)
	return f
}

func displayTitle(f model.Flow) string {
	if f.Title == "" {
		return "untitled flow"
	}
	return strconv.Quote(f.Title)
}
