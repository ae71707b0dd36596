package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Variable patterns. Names start with a letter or underscore.
var (
	// mustachePattern matches {{name}} with optional inner spaces.
	mustachePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

	// bracePattern matches ${name}.
	bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

	// dollarPattern matches a bare $name; $port does not match inside $portNumber.
	dollarPattern = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)\b`)
)

// Expander substitutes collected answers into prompt and message text.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	dollarStyle   bool
}

// NewExpander creates an Expander. By default missing variables are kept
// as written and bare $name references are expanded.
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		dollarStyle:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand replaces {{name}}, ${name} and (optionally) $name in s.
// An error is returned only under MissingError when a name is absent.
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	replace := func(match, name string) string {
		if val, ok := vars[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = appendUnique(missing, name)
		}
		return match
	}

	result := mustachePattern.ReplaceAllStringFunc(s, func(m string) string {
		return replace(m, mustachePattern.FindStringSubmatch(m)[1])
	})
	result = bracePattern.ReplaceAllStringFunc(result, func(m string) string {
		return replace(m, m[2:len(m)-1])
	})
	if e.dollarStyle {
		result = dollarPattern.ReplaceAllStringFunc(result, func(m string) string {
			return replace(m, m[1:])
		})
	}

	if len(missing) > 0 {
		return result, &UndefinedVariableError{Names: missing}
	}
	return result, nil
}

// Variables returns the distinct variable names referenced by s, in order
// of first appearance. Bare $name references count only when dollarStyle
// is enabled.
func (e *Expander) Variables(s string) []string {
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	collect := func(re *regexp.Regexp) {
		for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
			hits = append(hits, hit{pos: loc[0], name: s[loc[2]:loc[3]]})
		}
	}

	collect(mustachePattern)
	collect(bracePattern)
	if e.dollarStyle {
		// ${name} also matches the bare pattern's prefix check, skip those.
		for _, loc := range dollarPattern.FindAllStringSubmatchIndex(s, -1) {
			if loc[0]+1 < len(s) && s[loc[0]+1] == '{' {
				continue
			}
			hits = append(hits, hit{pos: loc[0], name: s[loc[2]:loc[3]]})
		}
	}

	// insertion sort by position; hit lists are short
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	var names []string
	for _, h := range hits {
		names = appendUnique(names, h.name)
	}
	return names
}

// UndefinedVariableError is returned under MissingError when one or more
// variables are not found.
type UndefinedVariableError struct {
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

func appendUnique(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}

var defaultExpander = NewExpander()

// Expand expands s with the default expander, keeping unknown variables.
func Expand(s string, vars map[string]any) string {
	result, _ := defaultExpander.Expand(s, vars)
	return result
}

// Variables lists the variables referenced by s using the default expander.
func Variables(s string) []string {
	return defaultExpander.Variables(s)
}
