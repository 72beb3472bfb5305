// Package bundle assembles the `.aria` archive: manifest.json, an
// optional verbatim package.json, one transpiled source file per emitted
// tool/agent/team/pipeline under implementations/, and a
// metadata/build.json record. It writes to a temporary path and renames
// into place on success, a standard atomic-write shape for single-writer,
// crash-safe files: write to "<path>.tmp", then os.Rename.
package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/arc-lang/arc/internal/manifest"
)

// Implementation is one transpiled code unit, ready to be written under
// implementations/<kind>/<Name><Ext>. Ext includes the leading dot
// (e.g. ".ts").
type Implementation struct {
	Kind   string // tool | agent | team | pipeline
	Name   string
	Source string
	Ext    string
}

// BuildInfo is the metadata/build.json record.
type BuildInfo struct {
	CompilerVersion string `json:"compiler_version"`
	SourceLanguage  string `json:"source_language"`
	BuiltAtUnix     int64  `json:"built_at_unix"`
}

// Bundle is everything the Packager needs to assemble one archive.
type Bundle struct {
	Manifest        manifest.Aria
	Implementations []Implementation
	PackageJSON     []byte // nil when the project has no root package.json
	BuildInfo       BuildInfo
}

// Write assembles b into a deflate-compressed archive and renames it into
// place at path atomically: readers may assume that if path exists, its
// contents are complete.
func Write(outputPath string, b Bundle) error {
	manifestJSON, err := b.Manifest.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	buildJSON, err := marshalBuildInfo(b.BuildInfo)
	if err != nil {
		return fmt.Errorf("marshal build metadata: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipFile(zw, "manifest.json", manifestJSON); err != nil {
		return err
	}
	if b.PackageJSON != nil {
		if err := writeZipFile(zw, "package.json", b.PackageJSON); err != nil {
			return err
		}
	}
	if err := writeZipFile(zw, "metadata/build.json", buildJSON); err != nil {
		return err
	}

	implementations := make([]Implementation, len(b.Implementations))
	copy(implementations, b.Implementations)
	sort.Slice(implementations, func(i, j int) bool {
		if implementations[i].Kind != implementations[j].Kind {
			return implementations[i].Kind < implementations[j].Kind
		}
		return implementations[i].Name < implementations[j].Name
	})
	for _, impl := range implementations {
		entry := path.Join("implementations", implKindDir(impl.Kind), impl.Name+impl.Ext)
		if err := writeZipFile(zw, entry, []byte(impl.Source)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	tmp := outputPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp archive: %w", err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename archive into place: %w", err)
	}
	return nil
}

func marshalBuildInfo(b BuildInfo) ([]byte, error) {
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func implKindDir(kind string) string {
	switch kind {
	case "tool":
		return "tools"
	case "agent":
		return "agents"
	case "team":
		return "teams"
	case "pipeline":
		return "pipelines"
	default:
		return kind
	}
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %q: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write archive entry %q: %w", name, err)
	}
	return nil
}
