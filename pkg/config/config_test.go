package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the reference heuristic constants.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Correlation.Margin != 25 {
		t.Errorf("Expected margin=25, got %d", cfg.Correlation.Margin)
	}
	if cfg.Correlation.UseFFT {
		t.Errorf("Expected the FFT path to default off")
	}
	if cfg.Classifier.ScanRegion != 50 {
		t.Errorf("Expected scanRegion=50, got %d", cfg.Classifier.ScanRegion)
	}
	if cfg.Classifier.PeakStride != 4 {
		t.Errorf("Expected peakStride=4, got %d", cfg.Classifier.PeakStride)
	}
	if cfg.Classifier.PeakWindow != 2 {
		t.Errorf("Expected peakWindow=2, got %d", cfg.Classifier.PeakWindow)
	}
	if cfg.Classifier.TurnThreshold != 20.0 {
		t.Errorf("Expected turnThreshold=20, got %f", cfg.Classifier.TurnThreshold)
	}
	if cfg.Processing.NumWorkers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Processing.NumWorkers)
	}
}

// TestLoadConfigMissingFile checks that a missing file yields defaults
// rather than an error.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed for a missing file: %v", err)
	}
	if cfg.Correlation.Margin != 25 {
		t.Errorf("Expected default margin for a missing file, got %d", cfg.Correlation.Margin)
	}
}

// TestSaveAndLoadConfig round-trips a modified configuration.
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camsweep.yaml")

	cfg := DefaultConfig()
	cfg.Correlation.Margin = 10
	cfg.Correlation.UseFFT = true
	cfg.Classifier.TurnThreshold = 15.5

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Correlation.Margin != 10 {
		t.Errorf("Expected margin=10 after round trip, got %d", loaded.Correlation.Margin)
	}
	if !loaded.Correlation.UseFFT {
		t.Errorf("Expected useFFT=true after round trip")
	}
	if loaded.Classifier.TurnThreshold != 15.5 {
		t.Errorf("Expected turnThreshold=15.5 after round trip, got %f", loaded.Classifier.TurnThreshold)
	}
}

// TestLoadConfigPartialFile checks that unspecified keys keep their
// defaults.
func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")

	partial := []byte("classifier:\n  turnThreshold: 30\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatalf("Failed to write partial config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Classifier.TurnThreshold != 30 {
		t.Errorf("Expected turnThreshold=30 from file, got %f", cfg.Classifier.TurnThreshold)
	}
	if cfg.Classifier.PeakStride != 4 {
		t.Errorf("Expected default peakStride=4 to survive a partial file, got %d", cfg.Classifier.PeakStride)
	}
	if cfg.Correlation.Margin != 25 {
		t.Errorf("Expected default margin=25 to survive a partial file, got %d", cfg.Correlation.Margin)
	}
}
