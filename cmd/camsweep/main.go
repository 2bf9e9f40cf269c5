package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"camsweep/pkg/classifier"
	"camsweep/pkg/config"
	"camsweep/pkg/correlation"
	"camsweep/pkg/gifio"
)

// batchInputs are the fixed demo sequences processed when no -input is
// given: two square-path sweeps and two triangular-path sweeps over the
// same scene.
var batchInputs = []struct {
	input  string
	output string
}{
	{"tree-cover-square-path-0.gif", "test_s_0.gif"},
	{"tree-cover-square-path-1.gif", "test_s_1.gif"},
	{"tree-cover-triangle-path-0.gif", "test_t_0.gif"},
	{"tree-cover-triangle-path-1.gif", "test_t_1.gif"},
}

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Input GIF sequence (default: run the fixed demo batch)")
	outputPath := flag.String("output", "", "Optional output GIF for the correlation sequence")
	classify := flag.Bool("classify", true, "Classify the swept path shape")
	assetsDir := flag.String("assets", "assets", "Directory holding the demo batch inputs")
	outDir := flag.String("outdir", "outputs", "Directory for the demo batch outputs")
	configPath := flag.String("config", "camsweep.yaml", "Path to YAML configuration")
	workers := flag.Int("workers", 0, "Number of frame pairs to correlate at once (default: config value)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Processing.NumWorkers = *workers
	}

	// Configure logger
	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)

	correlator := correlation.New(correlation.Options{
		Margin:     cfg.Correlation.Margin,
		UseFFT:     cfg.Correlation.UseFFT,
		NumWorkers: cfg.Processing.NumWorkers,
	})
	pathClassifier := classifier.New(correlator, classifier.Options{
		ScanRegion:    cfg.Classifier.ScanRegion,
		PeakStride:    cfg.Classifier.PeakStride,
		PeakWindow:    cfg.Classifier.PeakWindow,
		TurnThreshold: cfg.Classifier.TurnThreshold,
	})

	if *inputPath != "" {
		if err := processSequence(logger, correlator, pathClassifier, *inputPath, *outputPath, *classify); err != nil {
			logger.Error("processing failed", "input", *inputPath, "err", err)
			os.Exit(1)
		}
		return
	}

	// Demo batch: correlate the four fixed sweeps and classify each.
	failed := false
	for _, item := range batchInputs {
		in := filepath.Join(*assetsDir, item.input)
		out := filepath.Join(*outDir, item.output)
		if err := processSequence(logger, correlator, pathClassifier, in, out, *classify); err != nil {
			logger.Error("processing failed", "input", in, "err", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// processSequence runs the correlation pipeline over one stored
// sequence, optionally persisting the correlation frames and
// classifying the swept path.
func processSequence(logger *slog.Logger, correlator *correlation.Correlator, pathClassifier *classifier.Classifier, inputPath, outputPath string, classify bool) error {
	video, err := gifio.ReadSequence(inputPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded sequence", "input", inputPath, "frames", len(video))

	var sink correlation.Sink
	if outputPath != "" {
		sink = &gifio.Writer{Path: outputPath}
	}

	start := time.Now()
	correlated, err := correlator.BuildSequence(video, sink)
	if err != nil {
		return err
	}
	logger.Info("built correlation sequence",
		"input", inputPath,
		"frames", len(correlated),
		"elapsed", time.Since(start))
	if outputPath != "" {
		logger.Info("wrote correlation sequence", "output", outputPath)
	}

	if classify {
		triangular, err := pathClassifier.IsTriangular(video)
		if err != nil {
			return err
		}
		shape := "square"
		if triangular {
			shape = "triangular"
		}
		logger.Info("classified swept path", "input", inputPath, "shape", shape)
	}

	return nil
}
