// Package runner implements the case runner: per-case isolation, kernel
// staging, schema-validated dispatch, and failure capture (spec §4.11).
package runner

import (
	"encoding/json"
	"errors"
	"fmt"
)

// KernelEntry is one setup.kernels element: either a bare path string or
// {path, restrictToDir?} (spec §3 Case, §6 case file).
type KernelEntry struct {
	Path          string
	RestrictToDir string
}

// UnmarshalJSON accepts either a JSON string or a {path, restrictToDir?}
// object, mirroring the case file's documented union shape.
func (k *KernelEntry) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		k.Path = asString
		return nil
	}
	var asObject struct {
		Path          string `json:"path"`
		RestrictToDir string `json:"restrictToDir"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("runner: kernel entry must be a string or {path, restrictToDir?}: %w", err)
	}
	if asObject.Path == "" {
		return errors.New("runner: kernel entry object missing path")
	}
	k.Path = asObject.Path
	k.RestrictToDir = asObject.RestrictToDir
	return nil
}

// Setup is a case's optional kernel staging list.
type Setup struct {
	Kernels []KernelEntry `json:"kernels"`
}

// Case is one input to the runner (spec §3 Case, §6 case file):
// {call, args, setup?}.
type Case struct {
	Call  string   `json:"call"`
	Args  []any    `json:"args"`
	Setup *Setup   `json:"setup,omitempty"`
}

// ParseCase decodes one JSON case file (spec §6: "Case file. JSON-shaped:
// {call: string, args: any[], setup?: {kernels: ...}}").
func ParseCase(data []byte) (Case, error) {
	var c Case
	if err := json.Unmarshal(data, &c); err != nil {
		return Case{}, fmt.Errorf("runner: malformed case file: %w", err)
	}
	if c.Call == "" {
		return Case{}, errors.New("runner: case file missing call")
	}
	return c, nil
}
