package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/docs"
	"github.com/schemadoc-dev/schemadoc/internal/integrity"
)

var (
	verifyExpected string
	verifySidecar  string
)

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a generated document against its integrity record",
		Long: `Verify that a generated document still matches its recorded content hash.

The expectation comes from --expected (a hex SHA-256 digest or an
"sha256-<base64>" integrity string) or, by default, from the integrity.json
sidecar next to the file. Verification fails closed: a malformed expectation
counts as a mismatch.

Examples:
  schemadoc verify docs/openapi.json
  schemadoc verify docs/openapi.json --expected sha256-oMnU+...
  schemadoc verify build/openapi.yaml --sidecar build/integrity.json`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().StringVar(&verifyExpected, "expected", "", "Expected hash or integrity string")
	cmd.Flags().StringVar(&verifySidecar, "sidecar", "", "Integrity sidecar file (defaults to integrity.json next to the document)")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	errorColor := color.New(color.FgRed, color.Bold)

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	expected := verifyExpected
	if expected == "" {
		expected, err = sidecarExpectation(path)
		if err != nil {
			return err
		}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine := integrity.NewEngine(diag.NewReporter(logger))
	if !engine.Verify(content, expected, path) {
		errorColor.Printf("✗ %s failed integrity verification\n", filepath.Base(path))
		return fmt.Errorf("integrity verification failed")
	}

	successColor.Printf("✓ %s verified (%s)\n", filepath.Base(path), engine.ShortToken(engine.ComputeHash(content)))
	return nil
}

// sidecarExpectation reads the expected hash for a document from its
// integrity sidecar
func sidecarExpectation(documentPath string) (string, error) {
	sidecarPath := verifySidecar
	if sidecarPath == "" {
		sidecarPath = filepath.Join(filepath.Dir(documentPath), docs.IntegrityFilename)
	}

	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		return "", fmt.Errorf("failed to read integrity sidecar: %w", err)
	}

	var records map[string]integrity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return "", fmt.Errorf("invalid integrity sidecar: %w", err)
	}

	record, ok := records[filepath.Base(documentPath)]
	if !ok {
		return "", fmt.Errorf("integrity sidecar has no record for %s", filepath.Base(documentPath))
	}
	return record.Hash, nil
}
