// Package fontdb resolves font family names to glyph-metrics-capable faces.
//
// Families are looked up in user-registered files first, then in configured
// and OS font directories. Korean families are part of the default fallback
// chain so Korean/Japanese text always renders with a CJK-capable face when
// one is installed; the embedded Go Regular face is the final fallback.
package fontdb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"text-overlay/internal/layout"
)

// ErrMissingFont is returned when a requested font family cannot be resolved
// to a loadable font file.
var ErrMissingFont = errors.New("fontdb: missing font")

// DefaultKoreanFamilies is the fallback chain tried for regions whose own
// family cannot be resolved.
var DefaultKoreanFamilies = []string{
	"NanumGothic",
	"Malgun Gothic",
	"Noto Sans CJK KR",
	"Gulim",
}

// familyFiles maps known family names to candidate file basenames, checked in
// order against the indexed font directories.
var familyFiles = map[string][]string{
	"NanumGothic":      {"NanumGothic.ttf", "NanumGothic.otf", "NanumGothic-Regular.ttf"},
	"Malgun Gothic":    {"malgun.ttf", "malgunsl.ttf", "malgunbd.ttf"},
	"Gulim":            {"gulim.ttc", "NGULIM.TTF"},
	"Noto Sans CJK KR": {"NotoSansCJKkr-Regular.otf", "NotoSansCJK-Regular.ttc", "NotoSansKR-Regular.otf"},
	"Arial":            {"arial.ttf", "Arial.ttf"},
	"Times New Roman":  {"times.ttf"},
	"Courier New":      {"cour.ttf"},
}

// Registry loads and caches fonts by family name.
type Registry struct {
	mu     sync.Mutex
	custom map[string]string // family -> explicit file path
	dirs   []string
	index  map[string]string // lower-case basename -> path, built lazily
	parsed map[string]*sfnt.Font
}

// NewRegistry creates a registry searching the bundled fonts directory next
// to the executable plus the platform font directories.
func NewRegistry() *Registry {
	r := &Registry{
		custom: make(map[string]string),
		parsed: make(map[string]*sfnt.Font),
	}
	if exe, err := os.Executable(); err == nil {
		r.dirs = append(r.dirs, filepath.Join(filepath.Dir(exe), "fonts"))
	}
	r.dirs = append(r.dirs, systemFontDirs()...)
	return r
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		return []string{`C:\Windows\Fonts`}
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Fonts"),
			"/Library/Fonts",
			"/System/Library/Fonts",
		}
	default:
		return []string{
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			"/usr/share/fonts",
			"/usr/local/share/fonts",
		}
	}
}

// AddDir appends a directory to the search path and invalidates the index.
func (r *Registry) AddDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs = append(r.dirs, dir)
	r.index = nil
}

// Register maps a family name to an explicit font file, taking priority over
// directory lookup. This backs the "add custom font" workflow.
func (r *Registry) Register(family, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[family] = path
}

// Families returns the registered custom family names.
func (r *Registry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.custom))
	for f := range r.custom {
		out = append(out, f)
	}
	return out
}

// Face resolves a family name and pixel size to a font face. It fails with
// ErrMissingFont when no file for the family can be found or parsed, and
// with an invalid-dimension error for non-positive sizes.
func (r *Registry) Face(family string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size %v: %w", size, layout.ErrInvalidDimension)
	}

	path, err := r.resolve(family)
	if err != nil {
		return nil, err
	}
	fnt, err := r.load(path)
	if err != nil {
		return nil, fmt.Errorf("%q (%s): %v: %w", family, path, err, ErrMissingFont)
	}
	return newFace(fnt, size)
}

// FallbackFace resolves the family like Face but never fails: unresolvable
// families fall through the Korean default chain and finally the embedded Go
// Regular face. Used by the renderer so a missing font degrades instead of
// blocking the draw.
func (r *Registry) FallbackFace(family string, size float64) font.Face {
	if size <= 0 {
		size = 1
	}
	if face, err := r.Face(family, size); err == nil {
		return face
	}
	for _, fam := range DefaultKoreanFamilies {
		if fam == family {
			continue
		}
		if face, err := r.Face(fam, size); err == nil {
			return face
		}
	}
	face, _ := newFace(builtinFont(), size)
	return face
}

// resolve finds the font file path for a family.
func (r *Registry) resolve(family string) (string, error) {
	r.mu.Lock()
	if path, ok := r.custom[family]; ok {
		r.mu.Unlock()
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%q (%s): %w", family, path, ErrMissingFont)
		}
		return path, nil
	}
	r.mu.Unlock()

	candidates := familyFiles[family]
	if len(candidates) == 0 {
		base := strings.ReplaceAll(family, " ", "")
		candidates = []string{base + ".ttf", base + ".otf", family + ".ttf"}
	}
	for _, name := range candidates {
		if path := r.lookup(name); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%q: %w", family, ErrMissingFont)
}

// lookup finds a file by basename in the indexed font directories.
func (r *Registry) lookup(basename string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil {
		r.index = make(map[string]string)
		for _, dir := range r.dirs {
			filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				key := strings.ToLower(d.Name())
				if _, exists := r.index[key]; !exists {
					r.index[key] = path
				}
				return nil
			})
		}
	}
	return r.index[strings.ToLower(basename)]
}

// load parses a font file, caching the parsed font by path. TrueType
// collections (.ttc) yield their first font.
func (r *Registry) load(path string) (*sfnt.Font, error) {
	r.mu.Lock()
	if fnt, ok := r.parsed[path]; ok {
		r.mu.Unlock()
		return fnt, nil
	}
	r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fnt *sfnt.Font
	if strings.EqualFold(filepath.Ext(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		fnt, err = coll.Font(0)
		if err != nil {
			return nil, err
		}
	} else {
		fnt, err = opentype.Parse(data)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.parsed[path] = fnt
	r.mu.Unlock()
	return fnt, nil
}

func newFace(fnt *sfnt.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %v: %w", err, ErrMissingFont)
	}
	return face, nil
}

var (
	builtinOnce sync.Once
	builtin     *sfnt.Font
)

// builtinFont parses the embedded Go Regular font once.
func builtinFont() *sfnt.Font {
	builtinOnce.Do(func() {
		builtin, _ = opentype.Parse(goregular.TTF)
	})
	return builtin
}
