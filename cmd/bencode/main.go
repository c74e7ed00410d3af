// bencode inspects, converts and hashes bencoded files.
//
// Usage:
//
//	bencode decode [--text PATH]... [--all-text] [--format json|cbor|msgpack] [FILE]
//	bencode encode [FILE]
//	bencode hash [FILE]
//	bencode info FILE
//
// FILE defaults to stdin ("-"). -v logs decode failures to stderr.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/bencode"
	"github.com/unkn0wn-root/bencode/codec"
	bzap "github.com/unkn0wn-root/bencode/log/zap"
	"github.com/unkn0wn-root/bencode/metainfo"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    bencode.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, log: bencode.NopLogger{}}

	var err error
	switch args[0] {
	case "decode":
		err = e.decode(args[1:])
	case "encode":
		err = e.encode(args[1:])
	case "hash":
		err = e.hash(args[1:])
	case "info":
		err = e.info(args[1:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		err = usagef("unknown command %q", args[0])
	}

	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		printUsage(stderr)
		return exitUsage
	}
	return exitError
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  bencode decode [--text PATH]... [--all-text] [--format json|cbor|msgpack] [FILE]
  bencode encode [FILE]      JSON to bencode; strings become text
  bencode hash [FILE]        SHA-1 of the canonical encoding
  bencode info FILE          summary of a .torrent file

FILE defaults to stdin. Pass -v to any command for debug logging.
`)
}

// flags parses a subcommand's flags and returns its positional arguments.
func (e *env) flags(name string, args []string, define func(*pflag.FlagSet)) ([]string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.BoolP("verbose", "v", false, "log decode failures to stderr")
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, usagef("%s: %v", name, err)
	}
	if *verbose {
		e.log = bzap.New(newZap(e.stderr))
	}
	return fs.Args(), nil
}

func newZap(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.DebugLevel)
	return zap.New(core)
}

func (e *env) readInput(args []string, required bool) ([]byte, error) {
	switch {
	case len(args) > 1:
		return nil, usagef("unexpected argument %q", args[1])
	case len(args) == 0 && required:
		return nil, usagef("missing FILE")
	case len(args) == 0 || args[0] == "-":
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(args[0])
}

func (e *env) decoder(advise bencode.Advisor) *bencode.Decoder {
	return bencode.NewDecoder(bencode.DecoderOptions{Advisor: advise, Logger: e.log})
}

func (e *env) decode(args []string) error {
	var textPaths []string
	var allText bool
	var format string
	rest, err := e.flags("decode", args, func(fs *pflag.FlagSet) {
		fs.StringArrayVar(&textPaths, "text", nil, "key path (a/b/c) whose strings are text; repeatable")
		fs.BoolVar(&allText, "all-text", false, "treat every string as text")
		fs.StringVarP(&format, "format", "f", "json", "output format: json, cbor or msgpack")
	})
	if err != nil {
		return err
	}

	var out codec.Codec[bencode.Value]
	switch format {
	case "json":
		out = codec.JSON{Indent: "  "}
	case "cbor":
		out = codec.MustCBOR(true)
	case "msgpack":
		out = codec.Msgpack{}
	default:
		return usagef("decode: unknown format %q", format)
	}

	advise := bencode.TextPaths(textPaths...)
	if allText {
		advise = bencode.AllText
	}

	data, err := e.readInput(rest, false)
	if err != nil {
		return err
	}
	v, err := e.decoder(advise).Decode(data)
	if err != nil {
		return err
	}
	b, err := out.Encode(v)
	if err != nil {
		return err
	}
	if format == "json" {
		b = append(b, '\n')
	}
	_, err = e.stdout.Write(b)
	return err
}

func (e *env) encode(args []string) error {
	rest, err := e.flags("encode", args, nil)
	if err != nil {
		return err
	}
	data, err := e.readInput(rest, false)
	if err != nil {
		return err
	}
	v, err := codec.JSON{Advisor: bencode.AllText}.Decode(data)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = e.stdout.Write(bencode.Encode(v))
	return err
}

func (e *env) hash(args []string) error {
	rest, err := e.flags("hash", args, nil)
	if err != nil {
		return err
	}
	data, err := e.readInput(rest, false)
	if err != nil {
		return err
	}
	v, err := e.decoder(nil).Decode(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, bencode.Sum(v))
	return err
}

func (e *env) info(args []string) error {
	rest, err := e.flags("info", args, nil)
	if err != nil {
		return err
	}
	data, err := e.readInput(rest, true)
	if err != nil {
		return err
	}
	m, err := metainfo.ParseWith(e.decoder(metainfo.Advisor), data)
	if err != nil {
		return err
	}

	w := e.stdout
	fmt.Fprintf(w, "Name:         %s\n", m.Info.Name)
	fmt.Fprintf(w, "Info hash:    %s\n", m.InfoHash)
	if m.Announce != "" {
		fmt.Fprintf(w, "Tracker:      %s\n", m.Announce)
	}
	for i, tier := range m.AnnounceList {
		fmt.Fprintf(w, "Tier %d:       %s\n", i, strings.Join(tier, " "))
	}
	if m.CreatedBy != "" {
		fmt.Fprintf(w, "Created by:   %s\n", m.CreatedBy)
	}
	if !m.CreationDate.IsZero() {
		fmt.Fprintf(w, "Created:      %s\n", m.CreationDate.Format(time.RFC3339))
	}
	if m.Comment != "" {
		fmt.Fprintf(w, "Comment:      %s\n", m.Comment)
	}
	fmt.Fprintf(w, "Private:      %t\n", m.Info.Private)
	fmt.Fprintf(w, "Piece length: %d\n", m.Info.PieceLength)
	fmt.Fprintf(w, "Pieces:       %d\n", len(m.Info.Pieces))
	fmt.Fprintf(w, "Total length: %d\n", m.TotalLength())
	for _, f := range m.Info.Files {
		fmt.Fprintf(w, "  %10d  %s\n", f.Length, strings.Join(f.Path, "/"))
	}
	return nil
}
