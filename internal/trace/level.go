package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of the pipeline is traced. Each level admits the
// scope with the same rank and every coarser one.
type Level uint8

const (
	LevelOff   Level = iota // nothing
	LevelError              // heartbeats only; spans stay silent
	LevelPhase              // commands and pipeline passes
	LevelFile               // plus one span per checked file
	LevelRule               // plus one span per parsed statement
)

var levelNames = [...]string{"off", "error", "phase", "file", "rule"}

// старые имена из флагов ранних версий
var levelAliases = map[string]Level{
	"detail": LevelFile,
	"debug":  LevelRule,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", l)
}

// ParseLevel reads a level name as given on the command line.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	if l, ok := levelAliases[name]; ok {
		return l, nil
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are recorded at this level.
func (l Level) Allows(scope Scope) bool {
	// ранги уровней и областей совпадают начиная с LevelPhase/ScopePass
	return l >= LevelPhase && scope != 0 && uint8(scope) <= uint8(l)
}
