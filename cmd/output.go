package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agilemorph/firewatch/internal/store"
)

// outputPaths returns the timestamped JSON and spreadsheet paths for a new
// run, e.g. output/live_verified_fires_20250729_010631.json.
func outputPaths(dir string) (jsonPath, xlsxPath string) {
	stamp := time.Now().Format("20060102_150405")
	jsonPath = filepath.Join(dir, "live_verified_fires_"+stamp+".json")
	xlsxPath = filepath.Join(dir, "verified_fires_"+stamp+".xlsx")
	return jsonPath, xlsxPath
}

// latestMatch returns the most recently modified file in dir matching the
// glob pattern. Used when a command is pointed at an output directory
// instead of a specific file.
func latestMatch(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", eris.Wrapf(err, "glob %s", pattern)
	}
	if len(matches) == 0 {
		return "", eris.Errorf("no files matching %s in %s", pattern, dir)
	}

	latest := ""
	var latestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = m
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", eris.Errorf("no readable files matching %s in %s", pattern, dir)
	}
	return latest, nil
}

// openStore creates the configured incident store rooted at jsonPath when
// the json driver is active, or the shared database file otherwise.
func openStore(outputDir, jsonPath string) (store.Store, error) {
	path := jsonPath
	if cfg.Store.Driver == "sqlite" {
		path = filepath.Join(outputDir, "incidents.db")
	}
	st, err := store.Open(cfg.Store.Driver, path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}
