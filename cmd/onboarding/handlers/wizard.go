package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/renderers/tui"
)

// WizardOptions carries the wizard flags.
type WizardOptions struct {
	Format      string
	PrefillPath string
	OutputPath  string
	Debug       bool

	// Driver replaces the terminal prompts.
	Driver tui.PromptDriver
}

// Wizard prompts for a company in the terminal and writes the collected
// values to out, or to OutputPath when set.
func Wizard(ctx context.Context, opts WizardOptions, out io.Writer) error {
	values, err := loadPrefill(opts.PrefillPath)
	if err != nil {
		return err
	}

	constraints, err := company.LoadConstraints(ctx)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if opts.Debug {
		if logger, err = NewLogger("debug", true); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	options := []tui.Option{
		tui.WithOutputFormat(tui.OutputFormat(opts.Format)),
		tui.WithConstraints(constraints),
		tui.WithLogger(logger),
	}
	if opts.Driver != nil {
		options = append(options, tui.WithPromptDriver(opts.Driver))
	}
	renderer, err := tui.New(options...)
	if err != nil {
		return err
	}

	result, err := renderer.Render(ctx, onboarding.Steps(), render.RenderOptions{Values: values})
	if err != nil {
		return err
	}

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, result, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		_, err := fmt.Fprintf(out, "Company written to %s\n", opts.OutputPath)
		return err
	}
	_, err = fmt.Fprintln(out, string(result))
	return err
}

func loadPrefill(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prefill: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse prefill: %w", err)
	}
	return values, nil
}
