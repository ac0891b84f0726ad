package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/linear-srgb/raster"
)

type options struct {
	inFile      string
	ramp        int
	outFile     string
	format      string
	width       int
	channels    int
	exposure    float64
	black       float64
	white       float64
	wb          string
	engine      string
	kernelFile  string
	scale       int
	showStats   bool
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.inFile, "in", "", "Raw little-endian float32 samples")
	flag.IntVar(&opts.ramp, "ramp", 0, "Synthesize a 0..1 ramp of N pixels instead of reading -in")
	flag.StringVar(&opts.outFile, "out", "", "Output file (default: print bytes to stdout)")
	flag.StringVar(&opts.format, "format", "", "Output format: raw, png, bmp, tiff (default: from -out extension)")
	flag.IntVar(&opts.width, "width", 0, "Image width in pixels (default: one row)")
	flag.IntVar(&opts.channels, "channels", 1, "Channels per pixel: 1, 3 or 4")
	flag.Float64Var(&opts.exposure, "exposure", 0, "Exposure adjustment in stops")
	flag.Float64Var(&opts.black, "black", 0, "Black level mapped to 0 before conversion")
	flag.Float64Var(&opts.white, "white", 1, "White level mapped to 1 before conversion")
	flag.StringVar(&opts.wb, "wb", "", "White balance gains r,g,b (3 or 4 channels)")
	flag.StringVar(&opts.engine, "engine", engineNative, "Conversion engine: native or wasm")
	flag.StringVar(&opts.kernelFile, "kernel", "", "External kernel wasm file (implies -engine wasm)")
	flag.IntVar(&opts.scale, "scale", 1, "Enlarge image output by an integer factor")
	flag.BoolVar(&opts.showStats, "stats", false, "Print input sample statistics")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.inFile == "" && opts.ramp == 0 && !opts.interactive {
		fmt.Fprintln(os.Stderr, "Usage: srgb -in <samples.f32> [-out file] [-format png] [-width N] [-channels 1|3|4]")
		fmt.Fprintln(os.Stderr, "            [-black B -white W] [-wb r,g,b] [-exposure stops]")
		fmt.Fprintln(os.Stderr, "       srgb -ramp <N> [-out file] [-engine native|wasm] [-kernel file.wasm]")
		fmt.Fprintln(os.Stderr, "       srgb -i  (interactive mode)")
		os.Exit(1)
	}

	if opts.interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func run(opts options, stdout io.Writer) error {
	ctx := context.Background()

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	switch opts.channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("unsupported channel count %d (want 1, 3 or 4)", opts.channels)
	}

	format, err := outputFormat(opts.format, opts.outFile)
	if err != nil {
		return err
	}

	var samples []float32
	if opts.ramp > 0 {
		samples = ramp(opts.ramp, opts.channels)
	} else {
		samples, err = readSamplesFile(opts.inFile)
		if err != nil {
			return err
		}
	}
	logger.Debug("loaded samples", zap.Int("count", len(samples)), zap.Int("channels", opts.channels))

	if opts.showStats {
		printStats(stdout, summarize(samples))
	}
	if err := adjust(samples, opts); err != nil {
		return err
	}

	conv, err := newConverter(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer conv.Close(ctx)

	pix, err := conv.Convert(ctx, samples)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	logger.Debug("converted", zap.String("engine", conv.Name()), zap.Int("bytes", len(pix)))

	if opts.outFile == "" {
		return printBytes(stdout, pix)
	}
	return writeOutput(opts, format, pix)
}

// outputFormat resolves -format, falling back to the -out extension and
// then to raw.
func outputFormat(name, outFile string) (raster.Format, error) {
	if name != "" {
		return raster.ParseFormat(name)
	}
	if i := strings.LastIndexByte(outFile, '.'); i >= 0 {
		if f, err := raster.ParseFormat(outFile[i+1:]); err == nil {
			return f, nil
		}
	}
	return raster.FormatRaw, nil
}

func writeOutput(opts options, format raster.Format, pix []byte) error {
	f, err := os.Create(opts.outFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if format == raster.FormatRaw {
		if _, err := f.Write(pix); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return f.Close()
	}

	width := opts.width
	if width == 0 {
		width = len(pix) / opts.channels
	}
	img, err := raster.NewImage(pix, width, opts.channels)
	if err != nil {
		return err
	}
	if err := raster.Write(f, raster.Scale(img, opts.scale), format); err != nil {
		return err
	}
	return f.Close()
}

func printBytes(w io.Writer, pix []byte) error {
	var b strings.Builder
	for i, v := range pix {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
