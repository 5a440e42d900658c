package diagram

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ClassLexer tokenizes a single class block.
//
// An attribute name and its colon form one Label token, so a type followed by an unmarked
// attribute (`int name : varchar`) cannot be read as a two-word type.
var ClassLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Label", Pattern: `[A-Za-z][A-Za-z0-9_]*[ \t]*:`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][A-Za-z0-9]*`},
	{Name: "Visibility", Pattern: `[+-]`},
	{Name: "Punct", Pattern: `[{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// AssociationLexer tokenizes one association line. Everything from the first colon outside a
// multiplicity string to the end of the line is a single Label token, so the label is never
// tokenized.
var AssociationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Label", Pattern: `:[^\n]*`},
	{Name: "Link", Pattern: `-[a-z-]*-`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Text", Pattern: `[^\s":]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})
