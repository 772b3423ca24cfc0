package forge

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// BatchResult summarizes one batch run.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// ProcessBatch reads a batch file and processes each repository in order,
// strictly sequentially. Each line is "URL" or "URL skill-name"; blank lines
// and #-comments are skipped. A failing repository is logged and counted,
// never fatal for the rest of the batch.
func (f *Forge) ProcessBatch(ctx context.Context, path string) (BatchResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return BatchResult{}, fmt.Errorf("forge: open batch file: %w", err)
	}
	defer file.Close()

	var res BatchResult
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		url := fields[0]
		name := ""
		if len(fields) > 1 {
			name = fields[1]
		}
		if err := f.Process(ctx, url, name); err != nil {
			logrus.Errorf("line %d (%s): %v", lineNo, url, err)
			res.Failed++
			continue
		}
		res.Succeeded++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("forge: read batch file: %w", err)
	}
	logrus.Infof("batch complete: %d succeeded, %d failed", res.Succeeded, res.Failed)
	return res, nil
}
