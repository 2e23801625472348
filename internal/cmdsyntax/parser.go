// Package cmdsyntax parses the command surface syntax
// "[ns:]name(args).ext(args)" into a structured Invocation.
package cmdsyntax

import (
	"fmt"
	"strings"
)

// Invocation is the parsed form of a surface command call.
type Invocation struct {
	Namespace      string
	Name           string
	Args           []string
	Extension      string
	ExtensionArgs  []string
	HasExtension   bool
}

// Parse recognises "[ns:]name(args).ext(args)". Splitting on '.' and ':'
// happens only at depth 0 of the outermost parentheses; inside
// parentheses, arguments split on ',' at depth 0, honouring single- and
// double-quoted strings (quotes are stripped from the argument text).
// A missing opening parenthesis means the zero-arg form "name". Exactly
// one extension is accepted.
func Parse(raw string) (Invocation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Invocation{}, fmt.Errorf("cmdsyntax: empty input")
	}

	head, tail, hasExt, err := splitExtension(raw)
	if err != nil {
		return Invocation{}, err
	}

	ns, name, args, err := splitCommand(head)
	if err != nil {
		return Invocation{}, err
	}

	inv := Invocation{Namespace: ns, Name: name, Args: args}

	if hasExt {
		extName, extArgs, err := splitCommand(tail)
		if err != nil {
			return Invocation{}, err
		}
		if extName == "" {
			return Invocation{}, fmt.Errorf("cmdsyntax: empty extension name")
		}
		inv.Extension = extName
		inv.ExtensionArgs = extArgs
		inv.HasExtension = true
	}

	return inv, nil
}

// splitExtension splits raw into the command part and (optionally) the
// extension part, splitting on the first top-level '.' after the
// command's closing parenthesis. A second top-level '.' is an error.
func splitExtension(raw string) (head, tail string, hasExt bool, err error) {
	depth := 0
	splitAt := -1
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", "", false, fmt.Errorf("cmdsyntax: mismatched parentheses")
			}
		case '.':
			if depth == 0 {
				if splitAt != -1 {
					return "", "", false, fmt.Errorf("cmdsyntax: only one extension is permitted")
				}
				splitAt = i
			}
		}
	}
	if depth != 0 {
		return "", "", false, fmt.Errorf("cmdsyntax: mismatched parentheses")
	}
	if splitAt == -1 {
		return raw, "", false, nil
	}
	return raw[:splitAt], raw[splitAt+1:], true, nil
}

// splitCommand parses "[ns:]name[(args)]" or "name[(args)]" (the
// extension form has no namespace).
func splitCommand(s string) (ns, name string, args []string, err error) {
	// Namespace colon is only recognised before any parenthesis, at depth 0.
	colonAt := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '(' {
			break
		}
		if s[i] == ':' {
			colonAt = i
			break
		}
	}

	namePart := s
	if colonAt != -1 {
		ns = strings.TrimSpace(s[:colonAt])
		namePart = s[colonAt+1:]
	}
	namePart = strings.TrimSpace(namePart)

	openAt := -1
	depth := 0
	for i := 0; i < len(namePart); i++ {
		switch namePart[i] {
		case '(':
			if depth == 0 && openAt == -1 {
				openAt = i
			}
			depth++
		case ')':
			depth--
		}
	}

	if openAt == -1 {
		return ns, namePart, nil, nil
	}

	name = strings.TrimSpace(namePart[:openAt])
	if !strings.HasSuffix(namePart, ")") {
		return "", "", nil, fmt.Errorf("cmdsyntax: mismatched parentheses in %q", s)
	}
	inner := namePart[openAt+1 : len(namePart)-1]
	args, err = splitArgs(inner)
	if err != nil {
		return "", "", nil, err
	}
	return ns, name, args, nil
}

// splitArgs splits a comma-separated argument list at depth 0, honouring
// '"…"' and '\'…\'' quoting. Quotes are stripped from the result.
func splitArgs(inner string) ([]string, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, nil
	}

	var args []string
	var cur strings.Builder
	depth := 0
	var quote byte
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteByte(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
			cur.WriteByte(ch)
		case ch == ')':
			depth--
			cur.WriteByte(ch)
		case ch == ',' && depth == 0:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("cmdsyntax: unterminated quote in argument list")
	}
	args = append(args, strings.TrimSpace(cur.String()))
	return args, nil
}
