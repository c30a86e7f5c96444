package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/pixel-pipeline/internal/config"
	"github.com/ironsheep/pixel-pipeline/internal/imaging"
	"github.com/ironsheep/pixel-pipeline/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the program with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr, args)
		return 1
	}

	// Handle --version and -v flags
	switch args[1] {
	case "--version", "-v":
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h":
		help(stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("invalid configuration", "error", err)
		return 1
	}

	logger := cfg.Logger(stderr)
	logger.Debug("starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)

	codec := imaging.NewCodec(cfg.CodecOptions(logger))
	p, err := pipeline.FromArgs(args[1:], codec, cfg.PipelineOptions(logger))
	if err != nil {
		logger.Error("could not build pipeline", "error", err)
		return 1
	}

	if err := p.Run(); err != nil {
		logger.Error("pipeline failed", "error", err)
		return 1
	}
	return 0
}

func usage(w io.Writer, args []string) {
	name := config.AppName
	if len(args) > 0 {
		name = args[0]
	}
	fmt.Fprintf(w, "Usage: %s <stage> [args...] [<stage> [args...]]...\n", name)
	fmt.Fprintf(w, "Try '%s --help' for the list of stages.\n", name)
}

func help(w io.Writer) {
	fmt.Fprintf(w, "%s - load, resize, dither and save images\n", config.AppName)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Usage: %s <stage> [args...] [<stage> [args...]]...\n", config.AppName)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stages:")
	fmt.Fprintln(w, "  --load <path>              Replace the current image with a decoded file")
	fmt.Fprintln(w, "  --lanczos <width> <height> Resample the current image (Lanczos, radius 3)")
	fmt.Fprintln(w, "  --dither                   Floyd-Steinberg dither onto a 16 color palette")
	fmt.Fprintln(w, "  --save <path>              Write the current image; format from extension")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  PIXPIPE_LOG_LEVEL=info       debug, info, warn or error")
	fmt.Fprintln(w, "  PIXPIPE_LOG_FORMAT=text      text or json")
	fmt.Fprintln(w, "  PIXPIPE_PARALLEL=true        Resize rows concurrently")
	fmt.Fprintln(w, "  PIXPIPE_JPEG_QUALITY=95      JPEG output quality (1-100)")
	fmt.Fprintln(w, "  PIXPIPE_AUTO_ORIENT=false    Apply EXIF orientation on load")
	fmt.Fprintln(w, "  PIXPIPE_CACHE=true           Reuse images loaded more than once")
}
