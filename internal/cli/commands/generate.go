package commands

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schemadoc-dev/schemadoc/internal/cli/config"
	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/docs"
	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

var (
	generateInput    string
	generateOutput   string
	generateFormats  []string
	generateMaxDepth int
	generateTitle    string
	generateVersion  string
	generateDesc     string
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate canonical schema documents",
		Long: `Generate an OpenAPI-style schema document from a type graph descriptor.

The descriptor (JSON or YAML) names the types of your API structurally:
objects with fields, arrays, maps, unions and generic instantiations. The
output is canonical - byte-identical across runs, machines and locales - and
every generated file is stamped with its SHA-256 integrity record in an
integrity.json sidecar.

Examples:
  schemadoc generate
  schemadoc generate --input typegraph.yaml --format json,yaml
  schemadoc generate --output build/docs --max-depth 16`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&generateInput, "input", "i", "", "Type graph descriptor file (defaults to config)")
	cmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (defaults to config)")
	cmd.Flags().StringSliceVar(&generateFormats, "format", nil, "Output format(s): json, yaml")
	cmd.Flags().IntVar(&generateMaxDepth, "max-depth", 0, "Maximum schema nesting depth (0 = default)")
	cmd.Flags().StringVar(&generateTitle, "title", "", "API title (defaults to config)")
	cmd.Flags().StringVar(&generateVersion, "api-version", "", "API version (defaults to config)")
	cmd.Flags().StringVar(&generateDesc, "description", "", "API description (defaults to config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	docsConfig, descriptor, err := generateConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	infoColor.Printf("Generating documentation from %s...\n", descriptor)

	graph, err := typegraph.Load(descriptor)
	if err != nil {
		return err
	}

	generator, err := docs.NewGenerator(docsConfig, docs.WithReporter(diag.NewReporter(logger)))
	if err != nil {
		return err
	}

	result, err := generator.Generate(graph)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	successColor.Printf("✓ %d document(s) generated in %v\n", len(result.Outputs), elapsed)
	for _, output := range result.Outputs {
		infoColor.Printf("  %s  %s  %s\n", output.Path, output.Record.ShortToken, output.Record.ETag)
	}

	return nil
}

// generateConfig merges the config file with command line flag overrides
func generateConfig() (*docs.Config, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}

	descriptor := cfg.Generate.Descriptor
	if generateInput != "" {
		descriptor = generateInput
	}

	docsConfig := &docs.Config{
		Title:       cfg.Project.Name,
		Version:     cfg.Project.Version,
		Description: cfg.Project.Description,
		OutputDir:   cfg.Generate.Output,
		MaxDepth:    cfg.Generate.MaxDepth,
	}
	if generateTitle != "" {
		docsConfig.Title = generateTitle
	}
	if generateVersion != "" {
		docsConfig.Version = generateVersion
	}
	if generateDesc != "" {
		docsConfig.Description = generateDesc
	}
	if generateOutput != "" {
		docsConfig.OutputDir = generateOutput
	}
	if generateMaxDepth != 0 {
		docsConfig.MaxDepth = generateMaxDepth
	}

	formats := cfg.Generate.Formats
	if len(generateFormats) > 0 {
		formats = generateFormats
	}
	for _, format := range formats {
		docsConfig.Formats = append(docsConfig.Formats, docs.Format(format))
	}

	return docsConfig, descriptor, nil
}
