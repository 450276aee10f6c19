package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/rover/config"
)

// OutputManager handles structured run output: trajectory CSV, config echo,
// and the result record.
type OutputManager struct {
	dir      string
	trajFile *os.File

	trajHeaderWritten bool
}

// NewOutputManager creates an output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	trajPath := filepath.Join(dir, "trajectory.csv")
	f, err := os.Create(trajPath)
	if err != nil {
		return nil, fmt.Errorf("creating trajectory.csv: %w", err)
	}
	om.trajFile = f

	return om, nil
}

// WriteTick appends one record to trajectory.csv, writing the header on the
// first call.
func (om *OutputManager) WriteTick(rec TickRecord) error {
	if om == nil {
		return nil
	}

	records := []TickRecord{rec}
	if !om.trajHeaderWritten {
		if err := gocsv.Marshal(records, om.trajFile); err != nil {
			return fmt.Errorf("writing trajectory: %w", err)
		}
		om.trajHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.trajFile); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}
	return nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteResult saves the run result as <name>_result_<timestamp>.json and
// returns the path it wrote.
func (om *OutputManager) WriteResult(name string, res Result) (string, error) {
	if om == nil {
		return "", nil
	}

	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(om.dir, fmt.Sprintf("%s_result_%s.json", name, stamp))

	data, err := json.MarshalIndent(res, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing result: %w", err)
	}
	return path, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil || om.trajFile == nil {
		return nil
	}
	return om.trajFile.Close()
}
