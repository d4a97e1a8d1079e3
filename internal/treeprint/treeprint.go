// Package treeprint renders a flat list of archive entry names as a
// directory tree, the way `tree`(1) or `unzip -l` with a tree
// front-end would.
package treeprint

import (
	"io"
	"sort"
	"strings"

	"github.com/i64/remote-archive/internal/archive"
)

type node struct {
	name     string
	children map[string]*node
	order    []string
	isFile   bool
}

func newNode(name string) *node {
	return &node{name: name, children: map[string]*node{}}
}

func (n *node) child(name string) *node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNode(name)
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

// Print builds a path trie from entries' names (split on "/") and
// writes it to w depth-first, sorted, with box-drawing connectors.
func Print(w io.Writer, entries []archive.Entry) {
	root := newNode("")
	for _, e := range entries {
		segments := strings.Split(strings.TrimSuffix(e.Name, "/"), "/")
		cur := root
		for i, seg := range segments {
			if seg == "" {
				continue
			}
			cur = cur.child(seg)
			if i == len(segments)-1 && !e.IsDirectory {
				cur.isFile = true
			}
		}
	}
	printChildren(w, root, "")
}

func printChildren(w io.Writer, n *node, prefix string) {
	names := append([]string(nil), n.order...)
	sort.Strings(names)
	for i, name := range names {
		child := n.children[name]
		last := i == len(names)-1
		connector := "├── "
		nextPrefix := prefix + "│   "
		if last {
			connector = "└── "
			nextPrefix = prefix + "    "
		}
		io.WriteString(w, prefix+connector+name)
		if !child.isFile {
			io.WriteString(w, "/")
		}
		io.WriteString(w, "\n")
		printChildren(w, child, nextPrefix)
	}
}
