package plotting

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
)

// cjkFontFiles is the priority-ordered list of font files known to
// cover Korean text. The first one found on disk wins.
var cjkFontFiles = []string{
	"AppleGothic.ttf",      // macOS
	"AppleSDGothicNeo.ttc", // macOS alternative
	"NanumGothic.ttf",      // Linux/common
	"malgun.ttf",           // Windows (Malgun Gothic)
	"NanumBarunGothic.ttf", // Linux alternative
	"UnDotum.ttf",          // Linux alternative
}

// fontSearchDirs returns the platform font directories to scan.
func fontSearchDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
		"/Library/Fonts",
		`C:\Windows\Fonts`,
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	return dirs
}

var (
	fontOnce   sync.Once
	cachedFont *truetype.Font
	cachedName string
)

// KoreanFont finds the first available Korean-capable font from the
// priority list. It returns the parsed font and its file name, or
// (nil, "") when none is installed. The filesystem scan runs once per
// process; results are cached.
func KoreanFont() (*truetype.Font, string) {
	fontOnce.Do(func() {
		cachedFont, cachedName = scanForFont(fontSearchDirs(), cjkFontFiles)
	})
	return cachedFont, cachedName
}

func scanForFont(dirs, names []string) (*truetype.Font, string) {
	for _, name := range names {
		for _, dir := range dirs {
			path := findFontFile(dir, name)
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			font, err := truetype.Parse(data)
			if err != nil {
				// .ttc collections and damaged files fail to parse;
				// keep looking down the priority list.
				continue
			}
			return font, name
		}
	}
	return nil, ""
}

// findFontFile walks dir looking for a file whose base name matches
// name case-insensitively. Returns "" when absent.
func findFontFile(dir, name string) string {
	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking siblings
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Base(path), name) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// DefaultFont returns go-chart's built-in font, used when no Korean
// font is installed.
func DefaultFont() *truetype.Font {
	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil
	}
	return f
}
