package runner

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rybosome/tspice-sub001/kernels"
)

// ReadFile abstracts the single host filesystem read the case runner's
// kernel staging performs (spec §5: "Only the case runner's kernel staging
// may perform asynchronous file reads").
type ReadFile func(path string) ([]byte, error)

// Stager furnishes a case's kernel list into a kernel registry, choosing
// path-passthrough or byte-loading per the backend's declared mode
// (spec §4.11: "Kernel staging"). A Stager is scoped to one case: its
// dedup set must not be reused across cases.
type Stager struct {
	registry *kernels.Registry
	read     ReadFile
	mode     kernels.Source
	staged   map[string]bool // "{mode}:{abs-path}" -> already furnished
}

// NewStager builds a case-scoped stager. mode selects the backend's
// furnishing convention: SourcePath for a path-only (native-style) backend,
// SourceBytes for a byte-only (WASM-style) backend.
func NewStager(registry *kernels.Registry, mode kernels.Source, read ReadFile) *Stager {
	if read == nil {
		read = os.ReadFile
	}
	return &Stager{registry: registry, read: read, mode: mode, staged: make(map[string]bool)}
}

// Stage furnishes every entry in a case's kernel list (spec §4.11).
func (s *Stager) Stage(entries []KernelEntry) error {
	for _, e := range entries {
		if err := s.stageOne(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stager) stageOne(e KernelEntry) error {
	abs, err := filepath.Abs(e.Path)
	if err != nil {
		return fmt.Errorf("runner: resolving %q: %w", e.Path, err)
	}

	if s.mode == kernels.SourcePath {
		if kernels.InferKind(abs) == kernels.META && e.RestrictToDir != "" {
			return s.stageMetaKernel(abs, e.RestrictToDir)
		}
		return s.furnishPath(abs)
	}
	return s.furnishBytes(abs)
}

// stageMetaKernel expands a meta-kernel's KERNELS_TO_LOAD list against its
// restrictToDir root, furnishes every nested kernel as bytes after
// sanitization, and then records the meta-kernel itself by its path
// (spec §4.11, §4.7). The registry entry carries only that path: the
// sanitized text with the directive stripped is not passed on.
func (s *Stager) stageMetaKernel(abs, restrictToDir string) error {
	text, err := s.read(abs)
	if err != nil {
		return fmt.Errorf("runner: reading meta-kernel %q: %w", abs, err)
	}
	expanded, err := kernels.ExpandMetaKernel(string(text), restrictToDir)
	if err != nil {
		return err
	}
	for _, nested := range expanded.Kernels {
		if err := s.furnishBytes(nested); err != nil {
			return err
		}
	}
	return s.furnishRawPath(abs, []byte(expanded.Sanitized))
}

func (s *Stager) furnishPath(abs string) error {
	key := "path:" + abs
	if s.staged[key] {
		return nil
	}
	s.registry.Load(kernels.Entry{Path: abs})
	s.staged[key] = true
	return nil
}

// furnishRawPath records a path-backed kernel by its path alone. The
// content argument (the meta-kernel's sanitized text) is ignored.
func (s *Stager) furnishRawPath(abs string, _ []byte) error {
	return s.furnishPath(abs)
}

func (s *Stager) furnishBytes(abs string) error {
	key := "bytes:" + abs
	if s.staged[key] {
		return nil
	}
	data, err := s.read(abs)
	if err != nil {
		return fmt.Errorf("runner: reading kernel %q: %w", abs, err)
	}
	s.registry.Load(kernels.Entry{Path: virtualID(abs), Bytes: data})
	s.staged[key] = true
	return nil
}

// virtualID derives a stable per-kernel id from the canonical path plus
// basename, so two kernels with the same basename in different directories
// never collide once loaded as bytes (spec §4.11).
func virtualID(abs string) string {
	h := fnv.New64a()
	h.Write([]byte(abs))
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s-%x%s", stem, h.Sum64(), ext)
}
