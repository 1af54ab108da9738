package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/pipeline-metadata/plmd"
)

const usage = `Usage: plmd <command> [flags]

Commands:
  dump [--format text|json|yaml|cbor] FILE      print a decoded blob
  encode [--compress none|zstd|lz4] -o OUT DOC  write a blob described by a YAML document
  browse FILE                                   explore a blob interactively
  fingerprint FILE...                           print BLAKE3 fingerprints

Global flags:
  --config FILE           JSONC file with format, log_level, compress, max_input_bytes
  --log-level LEVEL       debug, info, warn or error
  --max-input-bytes N     reject larger inputs

FILE may be "-" for stdin. zstd and lz4 framed inputs are decompressed.
`

// errUsage marks command line mistakes, reported with exit status 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd := &command{name: args[0], stdout: stdout, stderr: stderr}
	err := cmd.execute(args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

type command struct {
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
	name   string
	global globalFlags
	cfg    config
}

func (c *command) execute(args []string) error {
	fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	c.global.register(fs)

	var (
		format      string
		compression string
		output      string
	)
	var handler func([]string) error
	switch c.name {
	case "dump":
		fs.StringVarP(&format, "format", "f", "text", "output format (text, json, yaml, cbor)")
		handler = c.dump
	case "encode":
		fs.StringVar(&compression, "compress", "none", "output compression (none, zstd, lz4)")
		fs.StringVarP(&output, "output", "o", "", "output file, - for stdout")
		handler = func(rest []string) error { return c.encode(rest, output) }
	case "browse":
		handler = c.browse
	case "fingerprint":
		handler = c.fingerprint
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, c.name)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := c.global.resolve(fs)
	if err != nil {
		return err
	}
	if fs.Changed("format") {
		cfg.Format = format
	}
	if fs.Changed("compress") {
		cfg.Compress = compression
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	c.cfg = cfg

	c.log = newLogger(cfg.LogLevel, c.stderr)
	defer func() { _ = c.log.Sync() }()
	prev := plmd.Logger()
	plmd.SetLogger(c.log)
	defer plmd.SetLogger(prev)

	return handler(fs.Args())
}

// newLogger writes human-readable records to a terminal and JSON otherwise.
// The level was checked by config.validate.
func newLogger(level string, w io.Writer) *zap.Logger {
	lvl, _ := zapcore.ParseLevel(level)

	var enc zapcore.Encoder
	if isTerminal(w) {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core).Named("plmd")
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// load reads, decompresses and decodes one input. The caller owns the
// returned handle.
func (c *command) load(path string) (*report, *plmd.Metadata, error) {
	data, method, err := readInput(path, c.cfg.MaxInputBytes)
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("read input",
		zap.String("file", path),
		zap.String("compression", method),
		zap.Int("size", len(data)))

	md, err := plmd.Load(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return newReport(path, method, data, md), md, nil
}

func (c *command) dump(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: dump takes exactly one FILE", errUsage)
	}
	r, md, err := c.load(args[0])
	if err != nil {
		return err
	}
	md.Destroy()
	return writeReport(c.stdout, c.cfg.Format, r, isTerminal(c.stdout))
}

func (c *command) encode(args []string, output string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: encode takes exactly one DOC file", errUsage)
	}
	if output == "" {
		return fmt.Errorf("%w: encode requires -o OUT", errUsage)
	}

	src, _, err := readInput(args[0], c.cfg.MaxInputBytes)
	if err != nil {
		return err
	}
	var doc plmd.Document
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	blob, err := plmd.Encode(&doc)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	out, err := compress(blob, c.cfg.Compress)
	if err != nil {
		return err
	}
	c.log.Info("encoded blob",
		zap.String("document", args[0]),
		zap.String("output", output),
		zap.Int("size", len(blob)),
		zap.String("compression", c.cfg.Compress),
		zap.Int("written", len(out)),
		zap.Stringer("fingerprint", plmd.FingerprintOf(blob)))

	if output == "-" {
		_, err = c.stdout.Write(out)
		return err
	}
	return os.WriteFile(output, out, 0o644)
}

func (c *command) browse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: browse takes exactly one FILE", errUsage)
	}
	if args[0] == "-" {
		return fmt.Errorf("%w: browse cannot read stdin", errUsage)
	}
	if !isTerminal(c.stdout) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("browse requires an interactive terminal; use dump instead")
	}
	r, md, err := c.load(args[0])
	if err != nil {
		return err
	}
	defer md.Destroy()
	return runBrowse(r, md)
}

func (c *command) fingerprint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: fingerprint takes at least one FILE", errUsage)
	}
	for _, path := range args {
		data, _, err := readInput(path, c.cfg.MaxInputBytes)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s  %s\n", plmd.FingerprintOf(data), path)
	}
	return nil
}
