package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cellgrid/pkg/pipeline"
)

// stdoutPath selects standard output as the destination.
const stdoutPath = "-"

// extensions maps formats to file extensions. Layouts get a compound
// extension so they never overwrite a JSON document.
var extensions = map[string]string{
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatPDF:  ".pdf",
	pipeline.FormatJSON: ".layout.json",
	pipeline.FormatText: ".txt",
}

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's extension is stripped; a known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	for _, ext := range extensions {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath returns where format is written. A single format goes to
// output verbatim when one is given.
func outputPath(format, output, input string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + extensions[format]
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes every requested format and returns the paths
// written. Output "-" streams a single artifact to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	single := len(p.formats) == 1
	if p.output == stdoutPath && !single {
		return nil, fmt.Errorf("cannot write %d formats to stdout", len(p.formats))
	}

	var paths []string
	for _, format := range p.formats {
		path := outputPath(format, p.output, p.input, single)
		out, err := openOutput(path)
		if err != nil {
			return paths, err
		}
		_, err = out.Write(p.artifacts[format])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		if path != stdoutPath {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns stdout for "-" and creates the file at path
// otherwise, overwriting it if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
