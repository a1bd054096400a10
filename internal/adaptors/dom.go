package adaptors

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func indexIDs(root *html.Node) map[string]*html.Node {
	ids := map[string]*html.Node{}
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, `id`); id != "" {
				ids[id] = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)
	return ids
}

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func svgElement(tag string, attrs ...string) *html.Node {
	n := element(tag, attrs...)
	n.Namespace = `svg`
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, `class`)) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	classes := append(strings.Fields(getAttr(n, `class`)), class)
	setAttr(n, `class`, strings.Join(classes, " "))
}

func removeClass(n *html.Node, class string) {
	kept := make([]string, 0)
	for _, c := range strings.Fields(getAttr(n, `class`)) {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, `class`, strings.Join(kept, " "))
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func setText(n *html.Node, s string) {
	removeChildren(n)
	n.AppendChild(textNode(s))
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.TrimSpace(b.String())
}

// findAll returns the elements below root, root included, accepted by match.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)
	return found
}

func firstElement(root *html.Node, tag string) *html.Node {
	nodes := findAll(root, func(n *html.Node) bool { return n.Data == tag })
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
