package scan

import (
	"html"
	"path"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/matzehuels/iconsprite/pkg/icon"
)

// languageFor picks the grammar for a file. Plain .ts files cannot contain
// JSX and use angle-bracket type assertions the TSX grammar rejects; every
// other extension is parsed as TSX, a superset of JS and JSX.
func languageFor(name string) *sitter.Language {
	switch path.Ext(name) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}

// collectIcons walks the tree and returns the literal name attribute of
// every component element.
func collectIcons(root *sitter.Node, src []byte, component, attribute string) icon.Set {
	names := icon.NewSet()

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type() {
		case "jsx_opening_element", "jsx_self_closing_element":
			if name, ok := literalAttribute(n, src, component, attribute); ok {
				names.Add(name)
			}
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return names
}

// literalAttribute returns the string value of attribute on element el if
// el's tag is exactly component. Only the first attribute with that name is
// considered; member tags like <Icons.LucideIcon> never match.
func literalAttribute(el *sitter.Node, src []byte, component, attribute string) (string, bool) {
	tag := el.ChildByFieldName("name")
	if tag == nil || tag.Type() != "identifier" || tag.Content(src) != component {
		return "", false
	}

	for i := 0; i < int(el.NamedChildCount()); i++ {
		attr := el.NamedChild(i)
		if attr.Type() != "jsx_attribute" || attr.NamedChildCount() == 0 {
			continue
		}
		key := attr.NamedChild(0)
		if key.Type() != "property_identifier" || key.Content(src) != attribute {
			continue
		}

		if attr.NamedChildCount() < 2 {
			return "", false
		}
		value := attr.NamedChild(1)
		if value.Type() != "string" {
			return "", false
		}
		name := unquote(value.Content(src))
		return name, name != ""
	}
	return "", false
}

// unquote strips the surrounding quotes of a JSX string and decodes HTML
// character references. JSX strings have no backslash escapes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return html.UnescapeString(s)
}

// firstErrorPosition returns the 1-based line and column of the first
// ERROR or missing node.
func firstErrorPosition(root *sitter.Node) (line, col int) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type() == "ERROR" || n.IsMissing() {
			p := n.StartPoint()
			return int(p.Row) + 1, int(p.Column) + 1
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}
	p := root.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}
