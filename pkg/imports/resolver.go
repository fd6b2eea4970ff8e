// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package imports resolves `import <path>` directives in configuration
// fragments. Import arguments may reference properties as ${name}, which
// are expanded through a caller-supplied source. Imports collected while
// reading a file are loaded after that file completes; a failed import is
// logged and does not abort the importing file's remaining directives.
package imports

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jeremyhahn/go-keymaster/pkg/logging"
)

// PropertyFunc resolves a property name referenced from an import
// argument.
type PropertyFunc func(name string) (string, bool)

// LineFunc receives every non-import directive in order, with the file
// and line it came from.
type LineFunc func(file string, line int, text string)

// Resolver loads configuration fragments, following import directives
// recursively.
type Resolver struct {
	props  PropertyFunc
	handle LineFunc
	logger *logging.Logger

	// Loaded lists every file successfully opened, in load order.
	Loaded []string
}

type pendingImport struct {
	path string
	line int
}

// NewResolver creates a Resolver. props may be nil when fragments use no
// property references; handle may be nil to discard non-import lines.
func NewResolver(props PropertyFunc, handle LineFunc, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Resolver{
		props:  props,
		handle: handle,
		logger: logger,
	}
}

// Load parses one configuration file and then everything it imports.
// The error reports only a failure to read the named file itself; import
// failures inside it are logged and non-fatal.
func (r *Resolver) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("imports: %w", err)
	}
	defer f.Close()

	r.Loaded = append(r.Loaded, path)

	var pending []pendingImport
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] != "import" {
			if r.handle != nil {
				r.handle(path, lineNum, line)
			}
			continue
		}
		if len(fields) != 2 {
			r.logger.Errorf("imports: %s:%d: single argument needed for import", path, lineNum)
			continue
		}
		target, err := r.expand(fields[1])
		if err != nil {
			r.logger.Errorf("imports: %s:%d: %v", path, lineNum, err)
			continue
		}
		r.logger.Debugf("imports: added '%s' to import list", target)
		pending = append(pending, pendingImport{path: target, line: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("imports: %s: %w", path, err)
	}

	// Imports load only after the current file is fully parsed.
	for _, imp := range pending {
		if err := r.Load(imp.path); err != nil {
			r.logger.Errorf("imports: %s:%d: could not import file '%s': %v",
				path, imp.line, imp.path, err)
		}
	}
	return nil
}

// expand substitutes ${name} property references in an import argument.
func (r *Resolver) expand(arg string) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(arg, "${")
		if start < 0 {
			out.WriteString(arg)
			return out.String(), nil
		}
		end := strings.Index(arg[start:], "}")
		if end < 0 {
			return "", fmt.Errorf("unterminated property reference in %q", arg)
		}
		name := arg[start+2 : start+end]
		if r.props == nil {
			return "", fmt.Errorf("no property source for %q", name)
		}
		value, ok := r.props(name)
		if !ok {
			return "", fmt.Errorf("unknown property %q", name)
		}
		out.WriteString(arg[:start])
		out.WriteString(value)
		arg = arg[start+end+1:]
	}
}
