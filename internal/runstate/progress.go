package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Progress is the externally visible state of the current run. The file is
// rewritten atomically so observers never see a partial document. The
// timestamp is epoch seconds, which is what external readers expect.
type Progress struct {
	Task      string `json:"task"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

// TaskIdle is the task name written between runs.
const TaskIdle = "idle"

// Reporter writes run progress to a well-known file.
type Reporter struct {
	path string
	now  func() time.Time
}

// NewReporter builds a reporter writing to path.
func NewReporter(path string) *Reporter {
	return &Reporter{path: path, now: time.Now}
}

// Update replaces the progress file with the current task state.
func (r *Reporter) Update(task string, current, total int) error {
	progress := Progress{
		Task:      task,
		Current:   current,
		Total:     total,
		Timestamp: r.now().Unix(),
	}
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("ensure progress dir: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace progress: %w", err)
	}
	return nil
}

// Reset marks the run as finished.
func (r *Reporter) Reset() error {
	return r.Update(TaskIdle, 0, 0)
}

// ReadProgress loads the progress file, or nil when none exists.
func ReadProgress(path string) (*Progress, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &progress, nil
}
