package report

import (
	"archive/zip"
	"os"
	"path/filepath"

	"macroshake/internal/textutil"
	"macroshake/internal/ziputil"
)

// WriteZip writes a reproducible run-bundle zip: manifest.json,
// output.js, diff.patch, README.md — the same core-JSON-then-README
// shape as the teacher's bundle.WriteFull, narrowed to one run's
// artifacts instead of a multi-file project snapshot.
func WriteZip(zipPath string, man Manifest, output, diffPatch string) error {
	if err := Validate(man); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	if err := ziputil.WriteJSON(zw, "manifest.json", man); err != nil {
		return err
	}

	outText := textutil.EnsureTrailingLF(textutil.NormalizeUTF8LF([]byte(output)))
	if err := ziputil.WriteText(zw, "output.js", outText); err != nil {
		return err
	}

	if diffPatch != "" {
		diffText := textutil.EnsureTrailingLF(textutil.NormalizeUTF8LF([]byte(diffPatch)))
		if err := ziputil.WriteText(zw, "diff.patch", diffText); err != nil {
			return err
		}
	}

	readme := Generate(ReadmeOptions{
		Namespace:         man.Namespace,
		ModulesTableFound: man.ModulesTableFound,
		ContextLines:      4,
	})
	readme = textutil.EnsureTrailingLF(textutil.NormalizeUTF8LF(readme))
	return ziputil.WriteText(zw, "README.md", readme)
}
