// Package directive implements D, the directive scanner: it recognises
// macro annotations embedded in comments, pairs if/endif into
// Conditional directives, and collects define-inline into ValueInline
// directives. Grounded on
// original_source/crates/swc_macro_parser/src/lib.rs (MACRO_REGEX,
// ATTR_REGEX, the namespace filter) and
// original_source/crates/swc_macro_condition_transform/src/lib.rs's
// push-down if/endif state machine, reworked as a standalone scanning
// pass over []ast.Comment rather than an AST visitor, since
// internal/ast attaches comments to a position rather than letting a
// visitor observe them mid-traversal.
package directive

import (
	"regexp"
	"sort"
	"strings"

	"macroshake/internal/ast"
	"macroshake/internal/macroerr"
)

// macroRegex mirrors MACRO_REGEX from the Rust reference exactly:
// @namespace:directive[attrs]. attrs is optional. namespace and
// directive both stop at the first ':', whitespace, or '['.
var macroRegex = regexp.MustCompile(`@(?P<namespace>[^:\s\[]+):(?P<directive>[^:\s\[]+)(?:\s*\[(?P<attrs>[^\]]*)\])?`)

// attrRegex mirrors ATTR_REGEX: key="value" pairs inside an attrs block.
var attrRegex = regexp.MustCompile(`(?P<key>[^=\s]+)\s*=\s*"(?P<value>[^"]*)"`)

// Kind distinguishes the two directive shapes of spec §3.
type Kind int

const (
	Conditional Kind = iota
	ValueInline
)

// Directive is the scanner's output unit: either a paired if/endif
// range with its condition path, or a single-position value-inline
// substitution with its value path and optional default.
type Directive struct {
	Kind      Kind
	Range     ast.Range // Conditional: [if-position, endif-position)
	Position  int       // ValueInline: the comment's attach position
	Condition string    // Conditional only
	ValuePath string    // ValueInline only
	Default   string    // ValueInline only
	HasDefault bool
}

type rawAnnotation struct {
	pos       int
	directive string
	attrs     map[string]string
}

// Scan extracts every directive comment matching namespace from
// comments, removing matched comments from the returned stream (the
// printer must never re-emit a directive comment) and pairing
// if/endif via a single ascending-position push-down pass.
func Scan(comments []ast.Comment, namespace string) ([]Directive, []ast.Comment, error) {
	var raws []rawAnnotation
	var rest []ast.Comment

	for _, c := range comments {
		ns, dirName, attrs, ok := match(c.Text, namespace)
		if !ok {
			rest = append(rest, c)
			continue
		}
		_ = ns
		raws = append(raws, rawAnnotation{pos: c.AttachPos, directive: dirName, attrs: attrs})
	}

	sort.SliceStable(raws, func(i, j int) bool { return raws[i].pos < raws[j].pos })

	var directives []Directive
	type pending struct {
		pos       int
		condition string
	}
	var ifStack []pending

	for _, r := range raws {
		switch r.directive {
		case "if":
			cond, ok := r.attrs["condition"]
			if !ok {
				return nil, nil, macroerr.New(macroerr.MalformedDirective, r.pos, "if", `missing "condition" attribute`)
			}
			ifStack = append(ifStack, pending{pos: r.pos, condition: cond})
		case "endif":
			if len(ifStack) == 0 {
				return nil, nil, macroerr.New(macroerr.UnpairedDirective, r.pos, "endif", "endif without a matching if")
			}
			top := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			directives = append(directives, Directive{
				Kind:      Conditional,
				Range:     ast.Range{Lo: top.pos, Hi: r.pos},
				Condition: top.condition,
			})
		case "define-inline":
			value, ok := r.attrs["value"]
			if !ok {
				return nil, nil, macroerr.New(macroerr.MalformedDirective, r.pos, "define-inline", `missing "value" attribute`)
			}
			def, hasDef := r.attrs["default"]
			directives = append(directives, Directive{
				Kind:       ValueInline,
				Position:   r.pos,
				ValuePath:  value,
				Default:    def,
				HasDefault: hasDef,
			})
		default:
			// unrecognised directive name: ignored per spec.
		}
	}

	if len(ifStack) != 0 {
		unmatched := ifStack[0]
		return nil, nil, macroerr.New(macroerr.UnpairedDirective, unmatched.pos, "if", "if without a matching endif")
	}

	return directives, rest, nil
}

// match tests comment text against the macro grammar and, on a
// matching namespace, returns the directive name and parsed attrs.
func match(text, namespace string) (ns, directive string, attrs map[string]string, ok bool) {
	m := macroRegex.FindStringSubmatch(text)
	if m == nil {
		return "", "", nil, false
	}
	names := macroRegex.SubexpNames()
	group := func(name string) string {
		for i, n := range names {
			if n == name && i < len(m) {
				return m[i]
			}
		}
		return ""
	}
	ns = group("namespace")
	if ns != namespace {
		return "", "", nil, false
	}
	directive = group("directive")
	attrs = map[string]string{}
	if raw := group("attrs"); raw != "" {
		for _, am := range attrRegex.FindAllStringSubmatch(raw, -1) {
			attrNames := attrRegex.SubexpNames()
			var key, val string
			for i, n := range attrNames {
				switch n {
				case "key":
					key = am[i]
				case "value":
					val = am[i]
				}
			}
			// A comma separator with no space after it is captured as
			// the first byte of the next key.
			key = strings.TrimLeft(key, ",")
			if key != "" {
				attrs[key] = val
			}
		}
	}
	return ns, directive, attrs, true
}
