package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode converts a config/CLI string to PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	default:
		return PathModeAuto, false
	}
}

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// TabWidth is the number of columns a tab occupies in rendered excerpts.
const TabWidth = 4

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // строк контекста вокруг помеченных строк
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
	// ShowPreview prints the source lines a fix would produce.
	ShowPreview bool
}

// DefaultPrettyOpts is what the CLI uses when nothing is configured.
func DefaultPrettyOpts() PrettyOpts {
	return PrettyOpts{Context: 1, ShowNotes: true, ShowFixes: true}
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
