package parser

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// EOF ends the input. A Ready EOF still carries a final field.
	EOF TokenType = iota
	// VALUE is a field followed by a delimiter.
	VALUE
	// EOR is the last field of a record, followed by a line terminator.
	EOR
)

var tokenNames = map[TokenType]string{
	EOF:   "EOF",
	VALUE: "VALUE",
	EOR:   "EOR",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is one field scanned by the Lexer, together with what ended it.
//
// Comment lines skipped before the field are carried on the token itself
// rather than reported separately, so the parser can attach them to the
// record the field belongs to.
type Token struct {
	Type    TokenType
	Content string
	Quoted  bool // field was encapsulated in quote characters
	Ready   bool // EOF token that still carries a field

	Comment    string // comment lines skipped before this token, joined by "\n"
	HasComment bool

	Pos Position // where the token began, after skipped comments and blank lines
}

// IsField reports whether the token carries a field value.
func (t Token) IsField() bool {
	return t.Type != EOF || t.Ready
}
