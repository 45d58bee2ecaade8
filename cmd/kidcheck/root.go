package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"menu-ops/internal/app"
	"menu-ops/internal/core/menu"
	"menu-ops/internal/core/tagging"
	"menu-ops/internal/infrastructure/config"
	"menu-ops/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stdinName = "-"

type options struct {
	sheet     bool
	asJSON    bool
	writeBack bool
	cfg       *config.Config
}

// fileReport 單一輸入檔的分類結果
type fileReport struct {
	File    string       `json:"file"`
	Result  *menu.Result `json:"result"`
	Summary menu.Summary `json:"summary"`
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "kidcheck [file...]",
		Short: "Classify menu rows as kid-friendly",
		Long: `Reads menu tables (comma-separated, "-" for stdin) and prints the kid-friendly report.
With --sheet the configured spreadsheet is classified instead; --write-back also
writes the kid-friendly column and sends the webhook notification.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.writeBack {
				opts.sheet = true
			}
			if opts.sheet {
				if len(args) > 0 {
					return fmt.Errorf("file arguments cannot be combined with --sheet")
				}
				return opts.runSheet(cmd)
			}
			return opts.runFiles(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.sheet, "sheet", false, "classify the configured menu spreadsheet")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of the text report")
	cmd.Flags().BoolVar(&opts.writeBack, "write-back", false, "write the kid-friendly column back to the spreadsheet (implies --sheet)")

	return cmd
}

// setup 載入 .env 與設定，日誌只寫 stderr
func (o *options) setup() error {
	if err := godotenv.Load(); err != nil {
		common.LogDebug(".env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := common.InitLogger(cfg.LogLevel, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.cfg = cfg
	return nil
}

func (o *options) runFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	batches := make([][]menu.MenuRecord, len(args))
	for i, name := range args {
		records, err := readFile(cmd.InOrStdin(), name)
		if err != nil {
			return err
		}
		batches[i] = records
	}

	svc := tagging.NewService(nil, nil, o.cfg.Classify.Workers)
	results, err := svc.ClassifyBatches(cmd.Context(), batches)
	if err != nil {
		return err
	}

	reports := lo.Map(results, func(r *menu.Result, i int) fileReport {
		return fileReport{File: args[i], Result: r, Summary: r.Summary()}
	})
	return o.print(cmd.OutOrStdout(), reports)
}

func (o *options) runSheet(cmd *cobra.Command) error {
	deps, err := app.Build(o.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if o.writeBack {
		res, err := deps.Tagging.Sync(ctx)
		if err != nil {
			return err
		}
		if o.asJSON {
			return writeJSON(out, res)
		}
		_, err = fmt.Fprintf(out, "%s: %s (%d cells)\n", res.Sheet, res.UpdatedRange, res.UpdatedCells)
		return err
	}

	result, err := deps.Tagging.Preview(ctx)
	if err != nil {
		return err
	}
	return o.print(out, []fileReport{{File: o.cfg.Sheets.MenuSheet, Result: result, Summary: result.Summary()}})
}

func (o *options) print(w io.Writer, reports []fileReport) error {
	if o.asJSON {
		if len(reports) == 1 {
			return writeJSON(w, reports[0])
		}
		return writeJSON(w, reports)
	}

	for i, r := range reports {
		if len(reports) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", r.File)
		}
		if err := r.Result.WriteReport(w); err != nil {
			return err
		}
	}
	return nil
}

func readFile(stdin io.Reader, name string) ([]menu.MenuRecord, error) {
	if name == stdinName {
		return menu.ReadRecords(stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	records, err := menu.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	common.LogDebug("菜單檔案已讀取", zap.String("file", name), zap.Int("records", len(records)))
	return records, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
