// Package main provides the CLI entry point for excel-commander.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emrergn-hash/excel-commander/pkg/commander/actions"
	"github.com/emrergn-hash/excel-commander/pkg/commander/api"
	"github.com/emrergn-hash/excel-commander/pkg/commander/config"
	"github.com/emrergn-hash/excel-commander/pkg/commander/host"
	"github.com/emrergn-hash/excel-commander/pkg/commander/render"
)

var (
	configPath string
	baseURL    string
	language   string
	workbook   string
	sheet      string
	selection  string
	outputPath string
	verbose    bool

	cleanInstructions string
	slideTitle        string
	slideInsights     int
	slideChartType    string
	slideNoChart      bool
	slideDownloadDir  string
)

// cliStatus prints connection and loading state to stderr.
type cliStatus struct {
	verbose bool
}

func (s cliStatus) SetLoading(on bool) {
	if s.verbose && on {
		fmt.Fprintln(os.Stderr, "⏳ İşleniyor...")
	}
}

func (s cliStatus) SetConnection(state string) {
	fmt.Fprintf(os.Stderr, "service: %s\n", state)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "excelcmd",
		Short: "AI-powered Excel assistant",
		Long: `excelcmd talks to the Excel Commander service to generate formulas,
explain formulas, clean data, and build presentations from a local workbook.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Excel Commander service URL")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "Language code for generated text (tr, en)")
	rootCmd.PersistentFlags().StringVarP(&workbook, "workbook", "w", "", "Path to the .xlsx workbook acting as the host")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "", "Worksheet name (default: active sheet)")
	rootCmd.PersistentFlags().StringVar(&selection, "selection", "", "A1-style cell or range selection")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "out", "o", "", "Output file for the result fragment (default: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	formulaCmd := &cobra.Command{
		Use:   "formula [description...]",
		Short: "Generate an Excel formula from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), func(ctx context.Context, s *actions.Session) error {
				return s.HandleCommand(ctx, strings.Join(args, " "))
			})
		},
	}

	explainCmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain the formula in the active cell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), func(ctx context.Context, s *actions.Session) error {
				return s.ExplainFormula(ctx)
			})
		},
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the data in the selected range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), func(ctx context.Context, s *actions.Session) error {
				return s.CleanData(ctx, cleanInstructions)
			})
		},
	}
	cleanCmd.Flags().StringVar(&cleanInstructions, "instructions", "", "Specific cleaning instructions")

	slideCmd := &cobra.Command{
		Use:   "slide",
		Short: "Generate a presentation from the selected range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chartType := api.ChartType(slideChartType)
			if !api.ValidChartType(chartType) {
				return fmt.Errorf("invalid chart type: %s", slideChartType)
			}
			opts := actions.SlideOptions{
				Title:        slideTitle,
				Insights:     slideInsights,
				IncludeChart: !slideNoChart,
				ChartType:    chartType,
				DownloadDir:  slideDownloadDir,
			}
			return runAction(cmd.Context(), func(ctx context.Context, s *actions.Session) error {
				return s.GenerateSlide(ctx, opts)
			})
		},
	}
	slideCmd.Flags().StringVar(&slideTitle, "title", actions.DefaultTitle, "Presentation title")
	slideCmd.Flags().IntVar(&slideInsights, "insights", 3, "Number of insights to generate (1-5)")
	slideCmd.Flags().StringVar(&slideChartType, "chart-type", string(api.ChartBar), "Slide layout: title, bullet_points, chart_bar, chart_line, chart_pie, two_column")
	slideCmd.Flags().BoolVar(&slideNoChart, "no-chart", false, "Skip the chart slide")
	slideCmd.Flags().StringVar(&slideDownloadDir, "download", "", "Directory to download the generated file into")

	helpPanelCmd := &cobra.Command{
		Use:   "help-panel",
		Short: "Show the instructional panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), func(ctx context.Context, s *actions.Session) error {
				s.ShowHelp()
				return nil
			})
		},
	}

	rootCmd.AddCommand(formulaCmd, explainCmd, cleanCmd, slideCmd, helpPanelCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runAction builds a session, runs one action, and writes the resulting
// fragment. Rendered action failures exit zero; only I/O errors propagate.
func runAction(ctx context.Context, fn func(context.Context, *actions.Session) error) error {
	// Best effort, like the rest of startup.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if language != "" {
		cfg.Language = language
	}
	if workbook != "" {
		cfg.Workbook = workbook
	}
	if sheet != "" {
		cfg.Sheet = sheet
	}
	if selection != "" {
		cfg.Selection = selection
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	status := cliStatus{verbose: verbose}
	client := api.New(cfg.BaseURL, cfg.TimeoutDuration(), log)

	// Startup health probe: a failure only flips the status line.
	if _, err := client.Health(ctx); err != nil {
		log.Warn("service health check failed", zap.Error(err))
		status.SetConnection("offline")
	} else {
		status.SetConnection("online")
	}

	// Host readiness gate: detection failure leaves a host-less session.
	var bridge host.Bridge
	if wb, err := host.Detect(cfg); err != nil {
		log.Warn("host not detected", zap.Error(err))
		fmt.Fprintln(os.Stderr, "host: unavailable")
	} else {
		bridge = wb
		defer wb.Close()
		fmt.Fprintf(os.Stderr, "host: ready (%s!%s)\n", wb.Sheet(), wb.SelectionRef())
	}

	session := actions.NewSession(cfg, client, bridge, render.NewPanel(), status, log)
	if err := fn(ctx, session); err != nil {
		return err
	}

	fragment := session.Panel().HTML()
	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(fragment+"\n"), 0644)
	}
	fmt.Println(fragment)
	return nil
}
