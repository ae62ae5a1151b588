// b64lanes decodes standard Base64 with the decoders in package
// base64 and checks that they agree.
//
// Usage:
//
//	b64lanes [-d scalar|vector|branchless|all] [-cpu] [-v] <base64> [<base64> ...]
//
// Each argument is printed with its decoded bytes in hex:
//
//	$ b64lanes aaaa AaA
//	aaaa: 69a69a
//	AaA: 01a0
//
// Options:
//
//	-d decoder  Decoder to use, or "all" to run every decoder
//	            and report any disagreement (default "all")
//	-cpu        Print the CPU features relevant to lane decoding
//	-v          Log each decoder's result
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/ericlagergren/swar/base64"
	"github.com/ericlagergren/swar/lane"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("b64lanes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	decoder := fs.String("d", "all", `decoder to use, or "all"`)
	showCPU := fs.Bool("cpu", false, "print CPU features")
	verbose := fs.Bool("v", false, "log each decoder's result")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: b64lanes [-d scalar|vector|branchless|all] [-cpu] [-v] <base64> [<base64> ...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(stderr, *verbose).Named("b64lanes")
	defer logger.Sync() //nolint:errcheck

	encs, err := selectEncodings(*decoder)
	if err != nil {
		logger.Error("invalid decoder",
			zap.String("decoder", *decoder),
			zap.Error(err),
		)
		return 2
	}

	if *showCPU {
		printCPU(stdout)
	}
	if fs.NArg() == 0 {
		if !*showCPU {
			fs.Usage()
			return 2
		}
		return 0
	}

	out := make([][]byte, fs.NArg())
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, arg := range fs.Args() {
		g.Go(func() error {
			b, err := decodeArg(logger, encs, arg)
			if err != nil {
				logger.Error("decode failed",
					zap.String("input", arg),
					zap.Error(err),
				)
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 1
	}

	for i, arg := range fs.Args() {
		fmt.Fprintf(stdout, "%s: %x\n", arg, out[i])
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

func selectEncodings(name string) ([]*base64.Encoding, error) {
	if name == "all" {
		return base64.Encodings(), nil
	}
	e, ok := base64.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown decoder %q", name)
	}
	return []*base64.Encoding{e}, nil
}

// decodeArg decodes arg with each Encoding in encs and returns
// the result of the first. It is an error for the Encodings to
// disagree.
func decodeArg(logger *zap.Logger, encs []*base64.Encoding, arg string) ([]byte, error) {
	var (
		want    []byte
		wantErr error
	)
	for i, e := range encs {
		got, err := e.AppendDecode(nil, []byte(arg))
		logger.Debug("decoded",
			zap.String("input", arg),
			zap.Stringer("decoder", e),
			zap.Int("bytes", len(got)),
			zap.Error(err),
		)
		if i == 0 {
			want, wantErr = got, err
			continue
		}
		if (err == nil) != (wantErr == nil) {
			return nil, errors.Errorf("%s and %s disagree: %v, %v", encs[0], e, wantErr, err)
		}
		if err == nil && !bytes.Equal(want, got) {
			return nil, errors.Errorf("%s and %s disagree: %x, %x", encs[0], e, want, got)
		}
	}
	if wantErr != nil {
		return nil, errors.Wrapf(wantErr, "%s", encs[0])
	}
	return want, nil
}

func printCPU(w io.Writer) {
	fmt.Fprintf(w, "GOOS: %s\n", runtime.GOOS)
	fmt.Fprintf(w, "GOARCH: %s\n", runtime.GOARCH)
	fmt.Fprintf(w, "Lane backend: portable, %d lanes\n", lane.MaxLanes)

	switch runtime.GOARCH {
	case "amd64":
		fmt.Fprintln(w, "=== golang.org/x/sys/cpu.X86 ===")
		fmt.Fprintf(w, "  HasSSSE3:       %v (pshufb)\n", cpu.X86.HasSSSE3)
		fmt.Fprintf(w, "  HasSSE41:       %v\n", cpu.X86.HasSSE41)
		fmt.Fprintf(w, "  HasAVX2:        %v (vpshufb)\n", cpu.X86.HasAVX2)
		fmt.Fprintf(w, "  HasAVX512BW:    %v\n", cpu.X86.HasAVX512BW)
		fmt.Fprintf(w, "  HasAVX512VBMI:  %v (vpermb)\n", cpu.X86.HasAVX512VBMI)
	case "arm64":
		fmt.Fprintln(w, "=== golang.org/x/sys/cpu.ARM64 ===")
		fmt.Fprintf(w, "  HasASIMD:  %v (tbl)\n", cpu.ARM64.HasASIMD)
		fmt.Fprintf(w, "  HasSVE:    %v\n", cpu.ARM64.HasSVE)
		fmt.Fprintf(w, "  HasSVE2:   %v\n", cpu.ARM64.HasSVE2)
	}
}
