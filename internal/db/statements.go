package db

import (
	"fmt"
	"strings"
)

// StatementError reports the statement a database rejected
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s) failed: %v", e.Index+1, firstLine(e.Statement), e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// SplitStatements splits a DDL script on semicolons, dropping empty statements
func SplitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// TableName returns the table created by a CREATE TABLE statement, or "" for any other
// statement
func TableName(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "CREATE") || !strings.EqualFold(fields[1], "TABLE") {
		return ""
	}
	name, _, _ := strings.Cut(fields[2], "(")
	return name
}

// OrderByDependency reorders CREATE TABLE statements so that every table comes after the
// tables it references. Statements caught in a reference cycle keep their relative order
// and go last.
func OrderByDependency(statements []string) []string {
	created := make(map[string]bool)
	declared := make(map[string]bool)
	for _, stmt := range statements {
		if name := TableName(stmt); name != "" {
			declared[strings.ToLower(name)] = true
		}
	}

	ready := func(stmt string) bool {
		self := strings.ToLower(TableName(stmt))
		for _, ref := range ReferencedTables(stmt) {
			ref = strings.ToLower(ref)
			if ref != self && declared[ref] && !created[ref] {
				return false
			}
		}
		return true
	}

	ordered := make([]string, 0, len(statements))
	pending := statements
	for len(pending) > 0 {
		var blocked []string
		for _, stmt := range pending {
			if ready(stmt) {
				ordered = append(ordered, stmt)
				created[strings.ToLower(TableName(stmt))] = true
			} else {
				blocked = append(blocked, stmt)
			}
		}
		if len(blocked) == len(pending) {
			return append(ordered, blocked...)
		}
		pending = blocked
	}
	return ordered
}

// ReferencedTables lists the tables named in REFERENCES clauses of a statement
func ReferencedTables(stmt string) []string {
	var refs []string
	fields := strings.Fields(stmt)
	for i := 0; i+1 < len(fields); i++ {
		if strings.EqualFold(fields[i], "REFERENCES") {
			name, _, _ := strings.Cut(fields[i+1], "(")
			refs = append(refs, name)
		}
	}
	return refs
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
