package diagram

import "strings"

const classKeyword = "class"

// ExtractBlocks scans diagram text line by line and returns every closed class block in
// source order. Lines outside a block are ignored. A block still open at end of input, or
// interrupted by another class line, is dropped.
func ExtractBlocks(text string) []ClassBlock {
	var (
		blocks  []ClassBlock
		current *ClassBlock
		parts   []string
	)

	emit := func() {
		current.Text = strings.Join(parts, " ")
		blocks = append(blocks, *current)
		current, parts = nil, nil
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if isClassStart(line) {
			current = &ClassBlock{Name: className(line), Line: i + 1}
			if body, closed := cutAfterBrace(line); closed {
				parts = []string{body}
				emit()
			} else {
				parts = []string{line}
			}
			continue
		}

		if current == nil || line == "" {
			continue
		}

		body, closed := cutAfterBrace(line)
		parts = append(parts, body)
		if closed {
			emit()
		}
	}

	return blocks
}

// cutAfterBrace drops whatever follows the first closing brace, such as a trailing comment
func cutAfterBrace(line string) (string, bool) {
	i := strings.Index(line, "}")
	if i < 0 {
		return line, false
	}
	return line[:i+1], true
}

func isClassStart(line string) bool {
	if !strings.HasPrefix(line, classKeyword) {
		return false
	}
	rest := line[len(classKeyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// className returns the identifier following the class keyword, or "" if there is none
func className(line string) string {
	rest := strings.TrimSpace(line[len(classKeyword):])
	end := strings.IndexAny(rest, " \t{")
	if end >= 0 {
		rest = rest[:end]
	}
	return rest
}
