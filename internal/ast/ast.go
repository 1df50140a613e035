// Package ast defines the syntax tree macroshake parses, mutates, and
// prints. It deliberately covers only the ECMAScript subset the
// transform/reachability/shake passes need: statements, declarations,
// and expressions that a bundler's emitted output actually contains.
package ast

// Position is an absolute byte offset into the original source, with
// a flag for offsets that do not map back to it. Nodes themselves carry
// a Range; a synthetic node (materialised from JSON, never present in
// the input) has the range {-1, -1}.
type Position struct {
	Offset    int
	Synthetic bool
}

// Range is a half-open [Lo, Hi) span of byte offsets.
type Range struct {
	Lo, Hi int
}

// Contains reports whether r wholly contains o — r.Lo <= o.Lo and
// o.Hi <= r.Hi. This is containment, not intersection.
func (r Range) Contains(o Range) bool {
	return o.Lo >= r.Lo && o.Hi <= r.Hi
}

// Len reports the number of bytes spanned by r.
func (r Range) Len() int { return r.Hi - r.Lo }

// Node is implemented by every syntax tree element that carries a
// source range.
type Node interface {
	Span() Range
}

// CommentKind distinguishes block from line comments, needed only by
// the printer (line comments force a following newline).
type CommentKind int

const (
	LineComment CommentKind = iota
	BlockComment
)

// AttachKind records whether a comment leads (precedes) or trails
// (follows, same line) the node it is indexed against.
type AttachKind int

const (
	Leading AttachKind = iota
	Trailing
)

// Comment is one source comment, indexed by the position of the node
// it attaches to. Comments consumed by the directive scanner are
// removed from the stream the printer sees.
type Comment struct {
	Kind   CommentKind
	Attach AttachKind
	// AttachPos is the byte offset of the AST node this comment leads
	// or trails — not the comment's own offset.
	AttachPos int
	Range     Range
	Text      string // raw comment text, delimiters stripped
}

// File is the root of a parsed module: an ordered sequence of module
// items (top-level statements and declarations).
type File struct {
	Items []Node
	Range Range
}

func (f *File) Span() Range { return f.Range }

// ---- statements -------------------------------------------------------

// ExprStmt is an expression used as a statement: `expr;`.
type ExprStmt struct {
	X     Node
	Range Range
}

func (s *ExprStmt) Span() Range { return s.Range }

// BlockStmt is `{ ...Items }`.
type BlockStmt struct {
	Items []Node
	Range Range
}

func (s *BlockStmt) Span() Range { return s.Range }

// VarDecl is `var|let|const d1, d2, ...;`.
type VarDecl struct {
	Kind  string // "var", "let", "const"
	Decls []*Declarator
	Range Range
}

func (s *VarDecl) Span() Range { return s.Range }

// Declarator is one `name = init` (or `name` with no initializer)
// inside a VarDecl.
type Declarator struct {
	Name  string
	Init  Node // nil if absent
	Range Range
}

func (d *Declarator) Span() Range { return d.Range }

// ReturnStmt is `return expr;` (expr may be nil).
type ReturnStmt struct {
	X     Node
	Range Range
}

func (s *ReturnStmt) Span() Range { return s.Range }

// IfStmt is `if (Cond) Then else Else` (Else may be nil). This is the
// real language's `if`, unrelated to the macro directive `@ns:if`.
type IfStmt struct {
	Cond  Node
	Then  Node
	Else  Node
	Range Range
}

func (s *IfStmt) Span() Range { return s.Range }

// FuncDecl is a named top-level function declaration.
type FuncDecl struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Range  Range
}

func (s *FuncDecl) Span() Range { return s.Range }

// EmptyStmt is a bare `;`.
type EmptyStmt struct {
	Range Range
}

func (s *EmptyStmt) Span() Range { return s.Range }

// RawStmt wraps a statement-level construct the parser does not
// decompose (for/while/switch/try/class/import/export/labeled/throw/
// break/continue) as verbatim source text. It still has a real Range,
// so T's remove-list containment and S's top-level-statement deletion
// both operate on it correctly; only its internals are opaque.
type RawStmt struct {
	Text  string
	Range Range
}

func (s *RawStmt) Span() Range { return s.Range }

// ---- expressions --------------------------------------------------------

// Ident is a bare identifier reference.
type Ident struct {
	Name  string
	Range Range
}

func (e *Ident) Span() Range { return e.Range }

// NullLit is the `null` literal. Used both for real source `null` and
// as T's safe placeholder for a removed expression (synthetic).
type NullLit struct {
	Range Range
}

func (e *NullLit) Span() Range { return e.Range }

// BoolLit is `true`/`false`.
type BoolLit struct {
	Value bool
	Range Range
}

func (e *BoolLit) Span() Range { return e.Range }

// NumberLit carries the double-precision value and, for real source
// nodes, the original literal text (so printing round-trips `0x10`,
// `1e3`, etc. unchanged). Synthetic nodes have no raw text — Raw is
// formatted from Value.
type NumberLit struct {
	Value float64
	Raw   string
	Range Range
}

func (e *NumberLit) Span() Range { return e.Range }

// StringLit carries the decoded string value and, for real source
// nodes, the raw quoted text (preserving the original quote character
// and escaping). Synthetic nodes have no raw text.
type StringLit struct {
	Value string
	Raw   string
	Range Range
}

func (e *StringLit) Span() Range { return e.Range }

// ArrayLit is `[e1, e2, ...]`. Elements may contain nil holes (elision).
type ArrayLit struct {
	Elems []Node
	Range Range
}

func (e *ArrayLit) Span() Range { return e.Range }

// Property is one `key: value` (or shorthand `key`) entry of an
// ObjectLit.
type Property struct {
	KeyName   string // canonical key text, quotes stripped
	KeyQuoted bool   // true if source used a string-literal key
	Computed  bool   // true for `[expr]: value` keys (rare in bundles); KeyName then holds expr's source text
	Value     Node
	Shorthand bool
	Method    bool   // true for `key(params) { ... }` shorthand methods
	Accessor  string // "", "get", or "set"
	Spread    bool   // true for `...expr`; Value holds expr, KeyName unused
	Range     Range
}

func (p *Property) Span() Range { return p.Range }

// ObjectLit is `{ prop, prop, ... }`.
type ObjectLit struct {
	Props []*Property
	Range Range
}

func (e *ObjectLit) Span() Range { return e.Range }

// FuncExpr is a (possibly anonymous) function expression:
// `function(name?)(params) { body }`.
type FuncExpr struct {
	Name   string // empty if anonymous
	Params []string
	Body   *BlockStmt
	Async  bool
	Range  Range
}

func (e *FuncExpr) Span() Range { return e.Range }

// ArrowFunc is `(params) => body` where Body is either a BlockStmt
// (braced body) or an expression (concise body).
type ArrowFunc struct {
	Params      []string
	Body        Node
	ConciseBody bool
	Async       bool
	Range       Range
}

func (e *ArrowFunc) Span() Range { return e.Range }

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	Callee Node
	Args   []Node
	Range  Range
}

func (e *CallExpr) Span() Range { return e.Range }

// MemberExpr is `Obj.Prop` or `Obj[Prop]` (Computed=true for the
// bracket form).
type MemberExpr struct {
	Obj      Node
	Prop     Node // *Ident for dotted access, arbitrary expr if Computed
	Computed bool
	Range    Range
}

func (e *MemberExpr) Span() Range { return e.Range }

// AssignExpr is `Target Op Value` (Op is "=", "+=", etc).
type AssignExpr struct {
	Op     string
	Target Node
	Value  Node
	Range  Range
}

func (e *AssignExpr) Span() Range { return e.Range }

// BinaryExpr is a binary operator application, including logical
// `&&`/`||`.
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
	Range Range
}

func (e *BinaryExpr) Span() Range { return e.Range }

// UnaryExpr is a prefix unary operator application (`!x`, `-x`,
// `typeof x`, `void x`, `delete x`).
type UnaryExpr struct {
	Op    string
	X     Node
	Range Range
}

func (e *UnaryExpr) Span() Range { return e.Range }

// ConditionalExpr is the ternary `Cond ? Then : Else`.
type ConditionalExpr struct {
	Cond, Then, Else Node
	Range            Range
}

func (e *ConditionalExpr) Span() Range { return e.Range }

// SeqExpr is a comma expression `a, b, c`.
type SeqExpr struct {
	Exprs []Node
	Range Range
}

func (e *SeqExpr) Span() Range { return e.Range }

// ParenExpr preserves an explicit source parenthesisation; the
// printer re-emits the parentheses. T/R see through it via Unwrap.
type ParenExpr struct {
	X     Node
	Range Range
}

func (e *ParenExpr) Span() Range { return e.Range }

// Unwrap strips any number of ParenExpr wrappers.
func Unwrap(n Node) Node {
	for {
		p, ok := n.(*ParenExpr)
		if !ok {
			return n
		}
		n = p.X
	}
}

// RawExpr wraps source text the parser could not (or chose not to,
// for an out-of-subset construct) decompose further — a template
// literal or a regex literal. It is opaque to T/R/S:
// it carries the node's bytes verbatim, but its children are still
// not walked. Raw start position participates normally in replace-list
// lookups and remove-list containment, since that only needs the
// range.
type RawExpr struct {
	Text  string
	Range Range
}

func (e *RawExpr) Span() Range { return e.Range }

// StartPos returns the start byte offset of a node's range — the
// position replace-list lookups key against.
func StartPos(n Node) int { return n.Span().Lo }
