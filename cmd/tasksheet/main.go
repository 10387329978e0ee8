// Package main provides the CLI entry point for tasksheet.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/llm"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/parser"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/render"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/store"
)

// storeFlags select the table to operate on.
type storeFlags struct {
	file  string
	sheet string
	db    string
	table string
}

type applyFlags struct {
	storeFlags
	addressing     string
	identityColumn string
	model          string
	maxTokens      int
	temperature    float64
	baseURL        string
	apiKeyEnv      string
	timeout        time.Duration
	responseFile   string
	dryRun         bool
	logLevel       string
	logJSON        bool
}

func main() {
	// A missing .env is not an error; the environment may already be set.
	_ = godotenv.Load()

	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasksheet",
		Short: "Edit a task table with natural-language instructions",
		Long: `tasksheet asks a language model to translate a natural-language request
into row-level edits and applies them to an xlsx sheet or a SQLite table.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newParseCommand())
	return rootCmd
}

func addStoreFlags(cmd *cobra.Command, f *storeFlags) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "xlsx workbook holding the task table")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name (default: active sheet)")
	cmd.Flags().StringVar(&f.db, "db", "", "SQLite database holding the task table")
	cmd.Flags().StringVar(&f.table, "table", "tasks", "SQLite table name")
	cmd.MarkFlagsMutuallyExclusive("file", "db")
	cmd.MarkFlagsOneRequired("file", "db")
}

// openStore opens the store selected by f. The returned close function
// saves nothing; callers save explicitly.
func openStore(f storeFlags) (store.TableStore, func() error, error) {
	switch {
	case f.file != "":
		if _, err := os.Stat(f.file); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %s", f.file)
		}
		s, err := store.OpenXLSX(f.file, f.sheet)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case f.db != "":
		s, err := store.OpenSQLite(f.db, f.table)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.New("one of --file or --db is required")
	}
}

func newApplyCommand() *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply [instruction]",
		Short: "Apply a natural-language change to the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, f, args[0])
		},
	}

	addStoreFlags(cmd, &f.storeFlags)
	cmd.Flags().StringVar(&f.addressing, "addressing", "position", "Row addressing: position or key")
	cmd.Flags().StringVar(&f.identityColumn, "identity-column", "", "Key column for key addressing (default: first column)")
	cmd.Flags().StringVar(&f.model, "model", tasksheet.DefaultModel, "Model identifier")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", tasksheet.DefaultMaxTokens, "Response size cap in tokens")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().StringVar(&f.apiKeyEnv, "api-key-env", "OPENAI_API_KEY", "Environment variable holding the API key")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 60*time.Second, "HTTP timeout for the model call")
	cmd.Flags().StringVar(&f.responseFile, "response-file", "", "Replay a saved model response instead of calling the API")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show the resulting changes without saving them")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON")
	return cmd
}

func runApply(cmd *cobra.Command, f applyFlags, instruction string) error {
	mode, err := models.ParseAddressingMode(f.addressing)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), f.logLevel, f.logJSON)
	if err != nil {
		return err
	}

	client, err := newClient(f)
	if err != nil {
		return err
	}

	s, closeStore, err := openStore(f.storeFlags)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := tasksheet.DefaultOptions()
	opts.Model = f.model
	opts.MaxTokens = f.maxTokens
	opts.Temperature = f.temperature
	opts.Addressing = mode
	opts.IdentityColumn = f.identityColumn
	opts.DryRun = f.dryRun
	opts.Logger = logger

	res, err := tasksheet.New(s, client, opts).Run(cmd.Context(), instruction)
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if f.dryRun {
		if res.Preview == "" {
			fmt.Fprintln(out, "No changes.")
		} else {
			fmt.Fprint(out, res.Preview)
		}
		fmt.Fprintln(out, res.Report.Summary())
		return nil
	}

	if saver, ok := s.(store.Saver); ok && res.Report.Applied > 0 {
		if err := saver.Save(); err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
	}
	fmt.Fprintln(out, res.Report.Summary())
	return nil
}

func newClient(f applyFlags) (llm.Client, error) {
	if f.responseFile != "" {
		data, err := os.ReadFile(f.responseFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read response file: %w", err)
		}
		return &llm.StaticClient{Text: string(data)}, nil
	}
	return llm.NewOpenAI(llm.OpenAIOptions{
		BaseURL:   f.baseURL,
		APIKeyEnv: f.apiKeyEnv,
		Timeout:   f.timeout,
	})
}

func newLogger(w io.Writer, level string, asJSON bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	if asJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

func newShowCommand() *cobra.Command {
	var f storeFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the task table with row positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore(f)
			if err != nil {
				return err
			}
			defer closeStore()

			rows, err := s.Rows()
			if err != nil {
				return fmt.Errorf("failed to read table: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Table(models.NewTable(rows)))
			if x, ok := s.(*store.XLSXStore); ok {
				if rng, err := x.Range(); err == nil && rng != "" {
					fmt.Fprintf(out, "%s!%s\n", x.Sheet(), rng)
				}
			}
			return nil
		},
	}
	addStoreFlags(cmd, &f)
	return cmd
}

func newParseCommand() *cobra.Command {
	var (
		addressing string
		outputPath string
		pretty     bool
	)
	cmd := &cobra.Command{
		Use:   "parse [response-file]",
		Short: "Decode a saved model response into actions (JSON)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := models.ParseAddressingMode(addressing)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("file not found: %s", args[0])
			}
			res, err := parser.Parse(string(data), parser.Options{Addressing: mode})
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}

			doc := struct {
				Source   parser.Source      `json:"source"`
				Repaired bool               `json:"repaired"`
				Batch    models.ActionBatch `json:"batch"`
			}{res.Source, res.Repaired, res.Batch}
			var jsonData []byte
			if pretty {
				jsonData, err = json.MarshalIndent(doc, "", "  ")
			} else {
				jsonData, err = json.Marshal(doc)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
	cmd.Flags().StringVar(&addressing, "addressing", "position", "Row addressing: position or key")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
