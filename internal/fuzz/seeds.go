package fuzztests

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
)

const maxSeedBytes = 4 << 10

var fixedTemplates = []string{
	"",
	"plain text",
	"The value is: %d",
	"%s and %d",
	"100%% done",
	"%-8.3f|%x|%q|%t|%v",
	"%",
	"%*d",
	"%[1]d",
	"%z",
	"tab\tnew\nline\x00nul",
	"café 日本",
	"\xff\xfe broken",
}

// quoted strings passed as the first argument of Trace/Dief calls in the
// repository sources
var templateCall = regexp.MustCompile(`\b(?:Trace|Dief)\(\s*("(?:[^"\\]|\\.)*")`)

func addTemplateSeeds(f *testing.F) {
	for _, tmpl := range fixedTemplates {
		f.Add(tmpl, int64(-7), "arg")
	}
	addSourceSeeds(f)
}

func addSourceSeeds(f *testing.F) {
	root := filepath.Join("..", "..")
	// walk the module sources and lift template literals
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "_examples" || d.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		// #nosec G304 -- path comes from repository walk
		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()
		sc := bufio.NewScanner(file)
		for sc.Scan() {
			for _, m := range templateCall.FindAllStringSubmatch(sc.Text(), -1) {
				if tmpl, err := strconv.Unquote(m[1]); err == nil {
					f.Add(clampSeed(tmpl), int64(42), "seed")
				}
			}
		}
		return nil
	})
}

func clampSeed(s string) string {
	if len(s) <= maxSeedBytes {
		return s
	}
	return s[:maxSeedBytes]
}
