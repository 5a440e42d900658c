package diagram

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

type associationNode struct {
	Left              string    `@Ident`
	LeftMultiplicity  string    `@String`
	Link              string    `@Link`
	RightMultiplicity string    `@String`
	Right             string    `@Ident`
	Label             labelText `@Label`
}

// labelText is the free text after the colon, unquoted when the whole label is one quoted string
type labelText string

func (l *labelText) Capture(values []string) error {
	text := strings.TrimSpace(strings.TrimPrefix(strings.Join(values, ""), ":"))
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		if unquoted, err := strconv.Unquote(text); err == nil {
			text = unquoted
		}
	}
	*l = labelText(text)
	return nil
}

var associationParser = participle.MustBuild[associationNode](
	participle.Lexer(AssociationLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// ExtractAssociations returns every association line in the diagram, in source order.
// Lines of any other shape are skipped.
func ExtractAssociations(text string) []Association {
	var assocs []Association

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		assoc, ok := ParseAssociation(line)
		if !ok {
			continue
		}
		assoc.Line = i + 1
		assocs = append(assocs, assoc)
	}

	return assocs
}

// ParseAssociation parses a single association line
func ParseAssociation(line string) (Association, bool) {
	node, err := associationParser.ParseString("", line)
	if err != nil {
		return Association{}, false
	}

	return Association{
		Left:              node.Left,
		LeftMultiplicity:  node.LeftMultiplicity,
		Direction:         strings.Trim(node.Link, "-"),
		RightMultiplicity: node.RightMultiplicity,
		Right:             node.Right,
		Label:             string(node.Label),
	}, true
}

// OwnershipPolicy decides which side of an association carries the foreign key
type OwnershipPolicy func(Association) ForeignKeyEntry

// LeftOwns puts the key on the left entity, referencing the right one. Cardinality,
// direction and label are not consulted.
func LeftOwns(a Association) ForeignKeyEntry {
	return ForeignKeyEntry{
		OwningTable:     a.Left,
		FieldName:       ForeignKeyField(a.Right),
		ReferencedTable: a.Right,
		Cardinality:     a.LeftMultiplicity + ":" + a.RightMultiplicity,
	}
}

// ManySideOwns puts the key on the side whose multiplicity is "many" (contains `*` or `n`).
// Falls back to LeftOwns when neither or both sides are many.
func ManySideOwns(a Association) ForeignKeyEntry {
	leftMany, rightMany := isMany(a.LeftMultiplicity), isMany(a.RightMultiplicity)
	if rightMany && !leftMany {
		return ForeignKeyEntry{
			OwningTable:     a.Right,
			FieldName:       ForeignKeyField(a.Left),
			ReferencedTable: a.Left,
			Cardinality:     a.RightMultiplicity + ":" + a.LeftMultiplicity,
		}
	}
	return LeftOwns(a)
}

func isMany(multiplicity string) bool {
	return strings.ContainsAny(strings.ToLower(multiplicity), "*n")
}

// ForeignKeyField names the foreign-key column that refers to entity
func ForeignKeyField(entity string) string {
	return strings.ToLower(entity) + "_id"
}

// ForeignKeys applies policy to each association and groups the entries by owning table.
// A nil policy means LeftOwns.
func ForeignKeys(assocs []Association, policy OwnershipPolicy) ForeignKeyMap {
	if policy == nil {
		policy = LeftOwns
	}

	fks := make(ForeignKeyMap)
	for _, a := range assocs {
		entry := policy(a)
		fks[entry.OwningTable] = append(fks[entry.OwningTable], entry)
	}
	return fks
}

// PolicyByName resolves a policy from its CLI/config name
func PolicyByName(name string) (OwnershipPolicy, bool) {
	switch strings.ToLower(name) {
	case "", "left":
		return LeftOwns, true
	case "many":
		return ManySideOwns, true
	default:
		return nil, false
	}
}
