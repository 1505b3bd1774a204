package position

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"TrendSentinel/internal/model"
)

// LoadState reads the position state from a JSON file. Returns a zero state
// if the file doesn't exist.
func LoadState(filePath string) (*model.PositionState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.PositionState{}, nil
		}
		return nil, err
	}
	var state model.PositionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the position state to a JSON file.
func SaveState(filePath string, state *model.PositionState) error {
	state.UpdatedAt = time.Now()
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
