package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// classNode is the parse tree of one class block
type classNode struct {
	Pos        lexer.Position
	Name       string           `"class" @Ident "{"`
	Attributes []*attributeNode `@@* "}"`
}

type attributeNode struct {
	Pos        lexer.Position
	Visibility string    `@Visibility?`
	Name       labelName `@Label`
	Type       []string  `@(Ident | Number) @(Ident | Number)?`
}

// labelName strips the colon carried by a Label token
type labelName string

func (l *labelName) Capture(values []string) error {
	name := strings.TrimSuffix(strings.Join(values, ""), ":")
	*l = labelName(strings.TrimSpace(name))
	return nil
}

var classParser = participle.MustBuild[classNode](
	participle.Lexer(ClassLexer),
	participle.Elide("Whitespace"),
)

// ParseClass parses the body of a class block into its ordered attributes.
// The result is a *ParseError when the block does not match the grammar.
func ParseClass(block ClassBlock) (*Class, error) {
	node, err := classParser.ParseString(block.Name, block.Text, participle.AllowTrailing(true))
	if err != nil {
		return nil, &ParseError{
			Class:  block.Name,
			Text:   block.Text,
			Detail: describe(err),
		}
	}

	class := &Class{
		Name:       node.Name,
		Attributes: make([]Attribute, 0, len(node.Attributes)),
	}
	for _, attr := range node.Attributes {
		class.Attributes = append(class.Attributes, Attribute{
			Name:         string(attr.Name),
			Type:         strings.ToUpper(strings.Join(attr.Type, "")),
			IsPrimaryKey: attr.Visibility == "+",
		})
	}

	return class, nil
}

func describe(err error) string {
	var perr participle.Error
	if errors.As(err, &perr) {
		return fmt.Sprintf("%s (column %d)", perr.Message(), perr.Position().Column)
	}
	return err.Error()
}
