package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	pagesDir      = "pages"
	bookmarksDir  = "bookmarks"
	definitionDir = "definition"
	reportSuffix  = ".Report"
	pageFile      = "page.json"
	visualsDir    = "visuals"
	visualFile    = "visual.json"
	jsonExtension = ".json"
)

// ErrNoReport is returned when neither a pages nor a bookmarks directory can
// be found.
var ErrNoReport = errors.New("no pages or bookmarks directory found")

// Source names the two report directories. Either may be empty.
type Source struct {
	Pages     string
	Bookmarks string
}

// Empty reports whether neither directory is set.
func (s Source) Empty() bool {
	return s.Pages == "" && s.Bookmarks == ""
}

// Locate finds the pages and bookmarks directories of a PBIP report. root may
// be the project folder holding a *.Report folder, the *.Report folder, or
// its definition folder. A project with several reports resolves to the
// first in lexical order.
func Locate(root string) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Source{}, fmt.Errorf("locate report: %w", err)
	}

	if !info.IsDir() {
		return Source{}, fmt.Errorf("locate report: %s: %w", root, ErrNoReport)
	}

	candidates := []string{root, filepath.Join(root, definitionDir)}

	reports, err := reportFolders(root)
	if err != nil {
		return Source{}, err
	}

	for _, report := range reports {
		candidates = append(candidates, filepath.Join(report, definitionDir))
	}

	for _, dir := range candidates {
		source := Source{
			Pages:     existingDir(filepath.Join(dir, pagesDir)),
			Bookmarks: existingDir(filepath.Join(dir, bookmarksDir)),
		}

		if !source.Empty() {
			return source, nil
		}
	}

	return Source{}, fmt.Errorf("locate report: %s: %w", root, ErrNoReport)
}

// Resolve applies explicit directory overrides on top of discovery. When both
// overrides are set, root is not inspected.
func Resolve(root, pages, bookmarks string) (Source, error) {
	if pages != "" && bookmarks != "" {
		return Source{Pages: pages, Bookmarks: bookmarks}, nil
	}

	source, err := Locate(root)
	if err != nil && pages == "" && bookmarks == "" {
		return Source{}, err
	}

	if pages != "" {
		source.Pages = pages
	}

	if bookmarks != "" {
		source.Bookmarks = bookmarks
	}

	return source, nil
}

func reportFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var reports []string

	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), strings.ToLower(reportSuffix)) {
			reports = append(reports, filepath.Join(root, entry.Name()))
		}
	}

	slices.Sort(reports)

	return reports, nil
}

func existingDir(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return ""
	}

	return path
}
