// File: pkg/output/tree.go
package output

import (
	"sort"
	"strings"
)

// TreeTitle starts every rendered tree.
const TreeTitle = "Directory structure:\n"

type treeNode struct {
	name     string
	isFile   bool
	children map[string]*treeNode
}

// RenderTree renders normalized paths as a box-drawing tree. Directories
// come before files at each level, each group sorted by name. The result
// ends with a blank line. No paths render as the empty string.
func RenderTree(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	root := &treeNode{children: map[string]*treeNode{}}
	for _, p := range paths {
		addPath(root, p)
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(TreeTitle)
	renderTreeRecursively(&treeBuilder, root, "")
	treeBuilder.WriteString("\n")
	return treeBuilder.String()
}

func addPath(root *treeNode, p string) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	current := root
	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}
		last := i == len(parts)-1
		child, ok := current.children[part]
		if !ok {
			child = &treeNode{name: part, isFile: last, children: map[string]*treeNode{}}
			current.children[part] = child
		} else if !last {
			// a name seen as a file earlier is a directory after all
			child.isFile = false
		}
		current = child
	}
}

// renderTreeRecursively writes node's children with the given prefix.
func renderTreeRecursively(b *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		entries = append(entries, c)
	}

	// Sort entries: directories first, then files, by name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isFile != entries[j].isFile {
			return !entries[i].isFile
		}
		return entries[i].name < entries[j].name
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(entry.name)
		if !entry.isFile {
			// Append '/' to directory names
			b.WriteString("/")
		}
		b.WriteString("\n")

		if !entry.isFile {
			renderTreeRecursively(b, entry, prefix+extension)
		}
	}
}
