package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nconklindev/rankconv/internal/config"
	"github.com/nconklindev/rankconv/internal/converter"
	"github.com/nconklindev/rankconv/internal/logging"
	"github.com/nconklindev/rankconv/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliFlags struct {
	configPath  string
	envFile     string
	output      string
	sheet       string
	prefer      []string
	mode        string
	idPrefix    string
	logLevel    string
	logFormat   string
	interactive bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorLine(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "rankconv [input.xlsx|input.csv]",
		Short: "Convert a player rankings spreadsheet to players.json",
		Long: `rankconv reads a rankings workbook, picks the rankings sheet, maps its
columns onto name / team / position / expert rank and writes the sorted
player list consumed by the mock draft UI.

With no arguments it reads REDRAFT-rankings.xlsx and writes
src/data/players.json.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "YAML config file")
	f.StringVar(&flags.envFile, "env-file", ".env", "Env file loaded before reading RANKCONV_* variables")
	f.StringVarP(&flags.output, "output", "o", "", "Output JSON path (default: "+config.DefaultOutput+")")
	f.StringVar(&flags.sheet, "sheet", "", "Sheet to read, bypassing sheet preferences")
	f.StringArrayVar(&flags.prefer, "prefer", nil, "Preferred sheet names, tried in order (repeatable)")
	f.StringVar(&flags.mode, "mode", "", "Column matching: lenient or strict (default: lenient)")
	f.StringVar(&flags.idPrefix, "id-prefix", "", "Prefix for generated player ids (default: p)")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default: text)")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Pick the file and sheet in a terminal UI")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags cliFlags, stdout io.Writer) error {
	if err := config.LoadEnvFile(flags.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, flags, args)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	if flags.interactive {
		return runInteractive(opts, args)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if _, err := os.Stat(opts.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", opts.InputFile)
	}

	result, err := converter.Convert(opts, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, ui.SuccessStyle.Render(ui.SuccessLine(result)))
	return nil
}

// applyFlags lays explicitly set flags and the positional input over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags cliFlags, args []string) {
	if len(args) > 0 {
		cfg.Input = args[0]
	}

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("sheet") {
		cfg.Sheet = flags.sheet
	}
	if changed("prefer") {
		cfg.PreferredSheets = flags.prefer
	}
	if changed("mode") {
		cfg.Mode = flags.mode
	}
	if changed("id-prefix") {
		cfg.IDPrefix = flags.idPrefix
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
}

func runInteractive(opts converter.Options, args []string) error {
	logging.Discard()

	var inputFile string
	if len(args) > 0 {
		inputFile = opts.InputFile
	}

	p := tea.NewProgram(ui.InitialModel(opts, inputFile), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
