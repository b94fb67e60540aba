package rihap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// Config is everything one reconstruction run needs.
type Config struct {
	PopulationPath string
	Parent1Path    string
	Parent2Path    string
	Parent1Name    string
	Parent2Name    string

	DictionaryPath string
	// GeneticMapPath is optional. Without it only the bp gate applies.
	GeneticMapPath string

	MaxBPDistance uint32
	MaxCMDistance float64

	OutputPath string
	SortWindow uint32

	// IndexDir, when set, persists each VCF's index there so later runs can
	// reuse it. Otherwise indexes are built in memory.
	IndexDir string
	// OriginMatrixPath, when set, receives the per-interval origin matrix.
	OriginMatrixPath string

	// Debug raises logging to the debug level.
	Debug bool
}

// DefaultConfig returns a Config with the default thresholds, writing to
// stdout.
func DefaultConfig() Config {
	return Config{
		MaxBPDistance: DefaultMaxBPDistance,
		MaxCMDistance: DefaultMaxCMDistance,
		OutputPath:    "-",
		SortWindow:    DefaultSortWindow,
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	required := []struct {
		name, value string
	}{
		{"population VCF", c.PopulationPath},
		{"parent 1 VCF", c.Parent1Path},
		{"parent 2 VCF", c.Parent2Path},
		{"parent 1 name", c.Parent1Name},
		{"parent 2 name", c.Parent2Name},
		{"reference dictionary", c.DictionaryPath},
		{"output path", c.OutputPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return pfx.Err(fmt.Errorf("the %s is required", r.name))
		}
	}

	for _, p := range []string{c.PopulationPath, c.Parent1Path, c.Parent2Path} {
		if p == "-" {
			return pfx.Err(fmt.Errorf("input VCFs must be files; stdin is only supported by the index command"))
		}
	}

	if c.Parent1Name == c.Parent2Name {
		return pfx.Err(fmt.Errorf("parent 1 and parent 2 are both named %s", c.Parent1Name))
	}
	if c.MaxCMDistance < 0 {
		return pfx.Err(fmt.Errorf("max cM distance must not be negative, got %g", c.MaxCMDistance))
	}
	if c.SortWindow == 0 {
		return pfx.Err(fmt.Errorf("sort window must be positive"))
	}

	return nil
}

// indexPath is where the index of the VCF at vcfPath is persisted, or "" to
// index in memory.
func (c Config) indexPath(vcfPath string) string {
	if c.IndexDir == "" {
		return ""
	}
	return filepath.Join(c.IndexDir, filepath.Base(vcfPath)+".rihap.db")
}
