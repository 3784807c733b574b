package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcobit/clawcrm/internal/services"
)

// NodeKind classifies a JSON tree node for styling.
type NodeKind string

// Node kinds
const (
	NullNode   NodeKind = "null"
	StringNode NodeKind = "string"
	SecretNode NodeKind = "secret"
	NumberNode NodeKind = "number"
	BoolNode   NodeKind = "bool"
	ArrayNode  NodeKind = "array"
	ObjectNode NodeKind = "object"
)

// Node is one rendered JSON value. Container nodes carry children only when
// expanded; collapsed containers still know their size for the summary line.
type Node struct {
	Path     string
	Key      string
	Kind     NodeKind
	Literal  string
	Size     int
	Expanded bool
	Children []*Node
}

// Collapsible reports whether the node takes an expand/collapse toggle.
// Empty arrays and objects render as a plain []/{} literal instead.
func (n *Node) Collapsible() bool {
	return (n.Kind == ArrayNode || n.Kind == ObjectNode) && n.Size > 0
}

var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	nullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	secretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
	toggleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// DefaultExpand returns the initial expansion state: only the root open.
func DefaultExpand(root string) map[string]bool {
	return map[string]bool{root: true}
}

// Tree converts a decoded JSON value into a render tree. The expand set is
// keyed by node path and is consulted, never modified; a nil set behaves
// like DefaultExpand(path). The input value is never mutated.
func Tree(value any, path string, expand map[string]bool) *Node {
	return build(value, path, "", path, expand)
}

func expandedAt(p, root string, expand map[string]bool) bool {
	if expand == nil {
		return p == root
	}
	return expand[p]
}

func build(value any, path, key, root string, expand map[string]bool) *Node {
	node := &Node{Path: path, Key: key}

	switch v := value.(type) {
	case nil:
		node.Kind = NullNode
		node.Literal = "null"
	case string:
		if v == services.RedactedSentinel {
			node.Kind = SecretNode
		} else {
			node.Kind = StringNode
		}
		node.Literal = strconv.Quote(v)
	case bool:
		node.Kind = BoolNode
		node.Literal = strconv.FormatBool(v)
	case float64:
		node.Kind = NumberNode
		node.Literal = strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		node.Kind = ArrayNode
		node.Size = len(v)
		if len(v) == 0 {
			node.Literal = "[]"
			break
		}
		node.Expanded = expandedAt(path, root, expand)
		if node.Expanded {
			for i, item := range v {
				childPath := path + "[" + strconv.Itoa(i) + "]"
				node.Children = append(node.Children, build(item, childPath, strconv.Itoa(i), root, expand))
			}
		}
	case map[string]any:
		node.Kind = ObjectNode
		node.Size = len(v)
		if len(v) == 0 {
			node.Literal = "{}"
			break
		}
		node.Expanded = expandedAt(path, root, expand)
		if node.Expanded {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				childPath := path + "." + k
				node.Children = append(node.Children, build(v[k], childPath, k, root, expand))
			}
		}
	default:
		// Non-JSON value (e.g. an int from hand-built test data); render
		// through its string form with number styling.
		node.Kind = NumberNode
		node.Literal = fmt.Sprintf("%v", v)
	}

	return node
}

// Lines flattens a render tree into styled terminal lines, two spaces of
// indentation per depth.
func Lines(node *Node) []string {
	var out []string
	walk(node, 0, &out)
	return out
}

func walk(n *Node, depth int, out *[]string) {
	indent := strings.Repeat("  ", depth)
	prefix := indent
	if n.Key != "" {
		prefix += keyStyle.Render(n.Key) + ": "
	}

	switch {
	case n.Collapsible() && n.Expanded:
		opener, closer := "{", "}"
		if n.Kind == ArrayNode {
			opener, closer = "[", "]"
		}
		*out = append(*out, prefix+toggleStyle.Render("▾ ")+opener)
		for _, child := range n.Children {
			walk(child, depth+1, out)
		}
		*out = append(*out, indent+closer)
	case n.Collapsible():
		summary := "{…" + strconv.Itoa(n.Size) + "}"
		if n.Kind == ArrayNode {
			summary = "[…" + strconv.Itoa(n.Size) + "]"
		}
		*out = append(*out, prefix+toggleStyle.Render("▸ "+summary))
	default:
		*out = append(*out, prefix+scalarStyle(n.Kind).Render(n.Literal))
	}
}

func scalarStyle(kind NodeKind) lipgloss.Style {
	switch kind {
	case SecretNode:
		return secretStyle
	case NumberNode:
		return numberStyle
	case BoolNode:
		return boolStyle
	case NullNode:
		return nullStyle
	case ArrayNode, ObjectNode:
		return toggleStyle
	default:
		return stringStyle
	}
}
