package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StructureReport describes the documents every site is expected to have.
type StructureReport struct {
	Index    bool     `json:"index"`
	NotFound bool     `json:"not_found"`
	Missing  []string `json:"missing"`
}

// CheckStructure reports whether the root index document and the 404 document
// are present. A missing 404 document is not fatal: the responder falls back
// to a built-in page.
func CheckStructure(root, index, notFound string) (StructureReport, error) {
	report := StructureReport{Missing: []string{}}

	for _, doc := range []struct {
		name  string
		found *bool
	}{
		{index, &report.Index},
		{notFound, &report.NotFound},
	} {
		ok, err := regularFile(filepath.Join(root, doc.name))
		if err != nil {
			return report, err
		}
		*doc.found = ok
		if !ok {
			report.Missing = append(report.Missing, doc.name)
		}
	}
	return report, nil
}

func regularFile(name string) (bool, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}
