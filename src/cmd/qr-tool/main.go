package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"screen-qr-scanner/src/decode"
	"screen-qr-scanner/src/logutil"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var errNotFound = errors.New("no QR code found")

type cliOptions struct {
	filePath   string
	jsonOutput bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args), os.Stdin, os.Stdout)
}

func runWithArgs(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		args = []string{"qr-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, stdin, stdout)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qr-tool",
		Short:         "Decode a QR code from an image file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, stdin, stdout)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to image file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWithOptions(opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	env := logutil.ProductionEnvironment
	if opts.verbose {
		env = logutil.DevelopmentEnvironment
	}
	logger := logutil.Setup(logutil.Options{Environment: env})
	defer func() { _ = logger.Sync() }()

	imageData, err := readInput(opts.filePath, stdin)
	if err != nil {
		return err
	}
	log.Printf("Read %d bytes from %s", len(imageData), opts.filePath)

	startTime := time.Now()
	payload, found, err := decode.QR{}.DecodeBytes(imageData)
	elapsed := time.Since(startTime)
	if err != nil {
		return errors.Wrap(err, "decode failed")
	}
	log.Printf("Decode completed in %v, found=%v", elapsed, found)

	if err := outputResult(stdout, payload, found, opts.filePath, elapsed, opts.jsonOutput); err != nil {
		return err
	}
	if !found {
		return errNotFound
	}
	return nil
}

func readInput(filePath string, stdin io.Reader) ([]byte, error) {
	var (
		r    io.Reader
		name = filePath
	)
	if filePath == "-" {
		r = stdin
		name = "stdin"
	} else {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read file %s", filePath)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	if len(data) == 0 {
		return nil, errors.New("input file is empty")
	}
	if len(data) > maxFileSize {
		return nil, errors.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	return data, nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"file", "json", "verbose"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}

type QRResult struct {
	Text      string  `json:"text"`
	Found     bool    `json:"found"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func outputResult(w io.Writer, payload string, found bool, sourcePath string, elapsed time.Duration, jsonOutput bool) error {
	if !jsonOutput {
		if found {
			_, err := fmt.Fprint(w, payload)
			return err
		}
		return nil
	}

	result := QRResult{
		Text:      payload,
		Found:     found,
		Source:    sourcePath,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return errors.Wrap(err, "failed to encode JSON output")
	}
	return nil
}
