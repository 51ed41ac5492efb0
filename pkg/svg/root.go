package svg

import "strings"

// Attr is one attribute of the root element.
type Attr struct {
	Name  string // attribute name as written
	Value string // unquoted value; empty for valueless attributes
	Raw   string // source text, e.g. `stroke="red"`
}

// Root is the outermost <svg> element of a document.
type Root struct {
	Attrs []Attr
	// Content is the text between the end of the open tag and the last
	// </svg>. It is empty for self-closing roots and when no closing tag
	// exists.
	Content string
}

// Parse locates the root <svg> element of doc. The XML declaration,
// comments, DOCTYPE and processing instructions before it are skipped.
// It reports false only when no <svg start tag exists. An unterminated open
// tag yields the attributes parsed so far and no content.
func Parse(doc string) (Root, bool) {
	start, ok := findRootTag(doc)
	if !ok {
		return Root{}, false
	}

	attrs, end, closed := parseAttrs(doc, start+len("<svg"))
	root := Root{Attrs: attrs}
	if !closed {
		return root, true
	}

	if i := strings.LastIndex(doc[end:], "</svg>"); i >= 0 {
		root.Content = doc[end : end+i]
	}
	return root, true
}

// findRootTag returns the offset of the first "<svg" start tag outside
// comments and declarations.
func findRootTag(doc string) (int, bool) {
	i := 0
	for i < len(doc) {
		lt := strings.IndexByte(doc[i:], '<')
		if lt < 0 {
			return 0, false
		}
		i += lt
		rest := doc[i:]

		switch {
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				return 0, false
			}
			i += 4 + end + 3
		case strings.HasPrefix(rest, "<?"):
			end := strings.Index(rest, "?>")
			if end < 0 {
				return 0, false
			}
			i += end + 2
		case strings.HasPrefix(rest, "<!"):
			end := declEnd(rest)
			if end < 0 {
				return 0, false
			}
			i += end
		case isRootOpen(rest):
			return i, true
		default:
			i++
		}
	}
	return 0, false
}

// isRootOpen reports whether s starts with an <svg start tag, as opposed to
// e.g. <svgfoo or </svg>.
func isRootOpen(s string) bool {
	if !strings.HasPrefix(s, "<svg") {
		return false
	}
	if len(s) == 4 {
		return true
	}
	c := s[4]
	return isSpace(c) || c == '>' || c == '/'
}

// declEnd returns the length of a <!...> declaration, honoring a bracketed
// internal subset, or -1 if it is unterminated.
func declEnd(s string) int {
	depth := 0
	for i := 2; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				return i + 1
			}
		}
	}
	return -1
}

// parseAttrs parses attributes starting at pos and returns them with the
// offset just past the closing '>'. closed is false when the tag is
// self-closing or unterminated; neither has content.
func parseAttrs(doc string, pos int) (attrs []Attr, end int, closed bool) {
	i := pos
	for {
		for i < len(doc) && isSpace(doc[i]) {
			i++
		}
		if i >= len(doc) {
			return attrs, len(doc), false
		}
		switch {
		case doc[i] == '>':
			return attrs, i + 1, true
		case strings.HasPrefix(doc[i:], "/>"):
			return attrs, i + 2, false
		case doc[i] == '/':
			i++
			continue
		}

		nameStart := i
		for i < len(doc) && !isSpace(doc[i]) && doc[i] != '=' && doc[i] != '>' && doc[i] != '/' {
			i++
		}
		name := doc[nameStart:i]

		j := i
		for j < len(doc) && isSpace(doc[j]) {
			j++
		}
		if j >= len(doc) || doc[j] != '=' {
			attrs = append(attrs, Attr{Name: name, Raw: name})
			continue
		}

		j++
		for j < len(doc) && isSpace(doc[j]) {
			j++
		}
		if j >= len(doc) {
			return attrs, len(doc), false
		}

		var value string
		if q := doc[j]; q == '"' || q == '\'' {
			closeIdx := strings.IndexByte(doc[j+1:], q)
			if closeIdx < 0 {
				return attrs, len(doc), false
			}
			value = doc[j+1 : j+1+closeIdx]
			i = j + 1 + closeIdx + 1
		} else {
			valueStart := j
			for j < len(doc) && !isSpace(doc[j]) && doc[j] != '>' {
				j++
			}
			value = doc[valueStart:j]
			i = j
		}
		attrs = append(attrs, Attr{Name: name, Value: value, Raw: doc[nameStart:i]})
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
