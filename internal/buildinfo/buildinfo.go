// Package buildinfo maintains the per-project build counter stored in .buildinfo.
//
// The file holds a single line "<number> <version>". Every invocation bumps the
// number by one; a change of the configured site version restarts it at 1.
package buildinfo

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
)

// State is the persisted counter.
type State struct {
	Number  int
	Version string
}

// Read returns the stored state. A missing or unparsable file reads as number 0
// with the given fallback version.
func Read(path, fallbackVersion string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{Version: fallbackVersion}
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 || len(fields) > 2 {
		return State{Version: fallbackVersion}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return State{Version: fallbackVersion}
	}
	// An empty version is written as a bare number.
	state := State{Number: n}
	if len(fields) == 2 {
		state.Version = fields[1]
	}
	return state
}

// Next computes the state following prev for the current version.
func Next(prev State, version string) State {
	if prev.Version != version {
		return State{Number: 1, Version: version}
	}
	return State{Number: prev.Number + 1, Version: version}
}

// Bump reads the counter at path, advances it for version and persists the
// result. The returned number is the one to expose for this invocation.
func Bump(path, version string) (int, error) {
	if strings.ContainsAny(version, " \t\n") {
		return 0, ferrors.ValidationError(fmt.Sprintf("site version %q must not contain whitespace", version)).Build()
	}
	next := Next(Read(path, version), version)
	if err := fsutil.WriteFileAtomic(path, []byte(next.String()), 0o644); err != nil {
		var classified *ferrors.ClassifiedError
		if errors.As(err, &classified) {
			return 0, err
		}
		return 0, ferrors.FileSystemError("failed to persist build counter").WithCause(err).WithContext("path", path).Build()
	}
	return next.Number, nil
}

func (s State) String() string {
	if s.Version == "" {
		return strconv.Itoa(s.Number)
	}
	return strconv.Itoa(s.Number) + " " + s.Version
}
