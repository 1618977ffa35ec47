package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	vizDirName     = "viz"
	pagesDirName   = "docs"
	eventsFileName = "events.json"

	// maxVizEvents caps the feed so the committed file stays small.
	maxVizEvents = 500
)

// AppendEvent appends one event to the visualization feed under viz/ and
// mirrors it to docs/ for GitHub Pages. The animated renderer itself is an
// external consumer; only its data feed is produced here.
func AppendEvent(repoPath string, event EventPayload) (string, error) {
	vizPath := filepath.Join(repoPath, vizDirName, eventsFileName)

	events, err := readEvents(vizPath)
	if err != nil {
		return "", err
	}
	events = append(events, event)
	if len(events) > maxVizEvents {
		events = events[len(events)-maxVizEvents:]
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode events feed: %w", err)
	}
	if err := atomicWrite(vizPath, data); err != nil {
		return "", err
	}

	pagesPath := filepath.Join(repoPath, pagesDirName, eventsFileName)
	if err := atomicWrite(pagesPath, data); err != nil {
		return "", err
	}

	return vizPath, nil
}

// readEvents loads the existing feed; a missing or unreadable feed starts a
// fresh one rather than failing the cycle.
func readEvents(path string) ([]EventPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []EventPayload{}, nil
		}
		return nil, fmt.Errorf("failed to read events feed: %w", err)
	}

	var events []EventPayload
	if err := json.Unmarshal(data, &events); err != nil {
		return []EventPayload{}, nil
	}
	return events, nil
}
