package harness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rybosome/tspice-sub001/runner"
)

// LoadCaseFile reads one JSON case file from disk (spec §6 "Case file").
func LoadCaseFile(path string) (runner.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.Case{}, fmt.Errorf("harness: reading %q: %w", path, err)
	}
	return runner.ParseCase(data)
}

// LoadCaseDir loads every *.json file directly under dir into a
// name-indexed batch, the shape RunAll expects.
func LoadCaseDir(dir string) (map[string]runner.Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("harness: reading dir %q: %w", dir, err)
	}
	cases := make(map[string]runner.Case, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isJSONFile(entry.Name()) {
			continue
		}
		c, err := LoadCaseFile(dir + "/" + entry.Name())
		if err != nil {
			return nil, err
		}
		cases[entry.Name()] = c
	}
	return cases, nil
}

func isJSONFile(name string) bool {
	return len(name) > len(".json") && name[len(name)-len(".json"):] == ".json"
}

// LoadCaseBatch decodes a single JSON file holding a name -> Case map, an
// alternative to one-file-per-case for bundling a whole suite together.
func LoadCaseBatch(path string) (map[string]runner.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: reading %q: %w", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("harness: malformed case batch %q: %w", path, err)
	}
	cases := make(map[string]runner.Case, len(raw))
	for name, body := range raw {
		c, err := runner.ParseCase(body)
		if err != nil {
			return nil, fmt.Errorf("harness: case %q: %w", name, err)
		}
		cases[name] = c
	}
	return cases, nil
}
