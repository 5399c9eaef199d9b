package widget

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// Node is a structured render instruction. View functions build node trees
// instead of concatenating markup, so externally sourced text can never be
// interpreted as markup by a downstream surface.
type Node struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Classes  []string
	Action   *Action
	Children []*Node
}

// Action binds a host-side interaction to a node (open the modal, change a
// slide, add to cart). Hosts dispatch these by name.
type Action struct {
	Name string
	Args map[string]any
}

// Element creates an element node.
func Element(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// Text creates a text node. The value is stored verbatim and escaped only
// at encode time.
func Text(value string) *Node {
	return &Node{Text: value}
}

// WithClass appends class names and returns the node for chaining.
func (n *Node) WithClass(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithAttr sets an attribute and returns the node for chaining.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

// WithAction attaches an interaction binding.
func (n *Node) WithAction(name string, args map[string]any) *Node {
	n.Action = &Action{Name: name, Args: args}
	return n
}

// Append adds child nodes and returns the parent for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool { return n.Tag == "" }

// Find returns the first descendant (including n itself) matching the
// predicate. Used heavily by tests.
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll collects every descendant matching the predicate.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	if n == nil {
		return out
	}
	if match(n) {
		out = append(out, n)
	}
	for _, child := range n.Children {
		out = append(out, child.FindAll(match)...)
	}
	return out
}

// ByClass matches nodes carrying the given class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		for _, c := range n.Classes {
			if c == class {
				return true
			}
		}
		return false
	}
}

// ByTag matches element nodes with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.Tag == tag }
}

// InnerText concatenates the text leaves beneath the node.
func (n *Node) InnerText() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(child.InnerText())
	}
	return b.String()
}

var voidTags = map[string]bool{
	"img":    true,
	"br":     true,
	"hr":     true,
	"input":  true,
	"source": true,
}

// EncodeHTML writes the node tree as HTML with every text and attribute
// value escaped. This feeds the preview surface; storefront hosts consume
// the tree directly.
func EncodeHTML(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	if n.IsText() {
		_, err := io.WriteString(w, html.EscapeString(n.Text))
		return err
	}
	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	if len(n.Classes) > 0 {
		if _, err := fmt.Fprintf(w, " class=%q", html.EscapeString(strings.Join(n.Classes, " "))); err != nil {
			return err
		}
	}
	for _, key := range sortedAttrKeys(n.Attrs) {
		if _, err := fmt.Fprintf(w, " %s=%q", key, html.EscapeString(n.Attrs[key])); err != nil {
			return err
		}
	}
	if n.Action != nil {
		if _, err := fmt.Fprintf(w, " data-action=%q", html.EscapeString(n.Action.Name)); err != nil {
			return err
		}
	}
	if voidTags[n.Tag] {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := EncodeHTML(w, child); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}

// RenderHTML is a convenience wrapper returning the encoded tree.
func RenderHTML(n *Node) (string, error) {
	var b strings.Builder
	if err := EncodeHTML(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func sortedAttrKeys(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
