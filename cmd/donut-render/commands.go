package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/kpidonut/internal/adapters/canvas/record"
	app "github.com/okian/kpidonut/internal/app"
	"github.com/okian/kpidonut/internal/config"
	"github.com/okian/kpidonut/internal/domain/gauge"
	"github.com/okian/kpidonut/internal/visual"
	"github.com/okian/kpidonut/pkg/logger"
)

// stdio names standard input or output in --input and --out.
const stdio = "-"

var errNoInput = errors.New("--input is required")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "donut-render",
		Short: "Render the donut KPI visual offline",
		Long: `donut-render feeds a data view (YAML or JSON) to the donut visual and
writes what it draws, or prints the settings the visual would show.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithSource(false)); err != nil {
				return err
			}
			return logger.SetLevelString(level)
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringP("input", "i", "", "data view file, or - for stdin")

	root.AddCommand(newRenderCmd(), newSettingsCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the gauge and write it as png, jpeg, svg or json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := readInput(cmd)
			if err != nil {
				return err
			}
			width, _ := cmd.Flags().GetFloat64("width")
			height, _ := cmd.Flags().GetFloat64("height")
			if width > 0 {
				opts.Viewport.Width = width
			}
			if height > 0 {
				opts.Viewport.Height = height
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			regular, _ := cmd.Flags().GetString("font-regular")
			bold, _ := cmd.Flags().GetString("font-bold")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if regular == "" {
				regular = cfg.FontRegularPath
			}
			if bold == "" {
				bold = cfg.FontBoldPath
			}
			svc := app.New(
				app.WithLogger(logger.Named("render")),
				app.WithMaxViewport(cfg.MaxViewport),
				app.WithDefaultFormat(cfg.DefaultFormat),
				app.WithJPEGQuality(cfg.JPEGQuality),
				app.WithFontFiles(regular, bold),
			)
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			body, _, err := svc.Render(ctx, opts, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, body)
		},
	}
	cmd.Flags().Float64("width", 0, "viewport width in logical px (overrides the file)")
	cmd.Flags().Float64("height", 0, "viewport height in logical px (overrides the file)")
	cmd.Flags().StringP("format", "f", "", "output format: png, jpeg, svg, json (default from config)")
	cmd.Flags().StringP("out", "o", stdio, "output file, or - for stdout")
	cmd.Flags().String("font-regular", "", "TTF file for normal-weight text")
	cmd.Flags().String("font-bold", "", "TTF file for bold text")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the settings-pane entries for a property group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := readInput(cmd)
			if err != nil {
				return err
			}
			group, _ := cmd.Flags().GetString("group")
			asJSON, _ := cmd.Flags().GetBool("json")

			// settings never export pixels, so the drawing is only recorded
			v := visual.New(
				visual.WithLogger(logger.Named("settings")),
				visual.WithSurfaceFactory(func(w, h int) gauge.Canvas {
					return record.New(float64(w), float64(h))
				}),
			)
			defer func() { _ = v.Close() }()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			v.Update(ctx, opts)
			instances := v.EnumerateObjectInstances(visual.EnumerateOptions{ObjectName: group})

			var body []byte
			if asJSON {
				body, err = json.MarshalIndent(instances, "", "  ")
				body = append(body, '\n')
			} else {
				body, err = yaml.Marshal(instances)
			}
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().StringP("group", "g", visual.GroupCircle, "property group to enumerate")
	cmd.Flags().Bool("json", false, "print JSON instead of YAML")
	return cmd
}

// readInput decodes the --input payload. YAML is a superset of JSON, so one
// decoder serves both.
func readInput(cmd *cobra.Command) (visual.UpdateOptions, error) {
	var opts visual.UpdateOptions
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return opts, errNoInput
	}

	var (
		data []byte
		err  error
	)
	if path == stdio {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return opts, fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("decode %s: %w", path, err)
	}
	return opts, nil
}

func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == stdio || path == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
