// Package filetree builds and filters the hierarchical project view from a
// flat list of ingested files.
package filetree

import (
	"sort"
	"strings"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

// RootName is the synthetic display name of the tree root.
const RootName = "Project Root"

// Build turns a flat record list into a rooted, sorted tree. Records with an
// empty path are skipped. When two records map to the same name at the same
// level the first encountered keeps the slot.
func Build(files []models.FileRecord) *models.FileTreeNode {
	root := &models.FileTreeNode{
		Name:     RootName,
		Type:     models.NodeFolder,
		Path:     "",
		Children: []*models.FileTreeNode{},
	}

	for _, file := range files {
		if file.Path == "" {
			continue
		}

		parts := strings.Split(file.Path, "/")
		current := root

		for i, part := range parts {
			if part == "" {
				continue
			}

			isFile := i == len(parts)-1
			fullPath := strings.Join(parts[:i+1], "/")

			node := findChild(current, part)
			if node == nil {
				node = &models.FileTreeNode{
					Name: part,
					Path: fullPath,
				}
				if isFile {
					node.Type = models.NodeFile
				} else {
					node.Type = models.NodeFolder
					node.Children = []*models.FileTreeNode{}
				}
				current.Children = append(current.Children, node)
			}

			if node.IsFolder() {
				current = node
			}
		}
	}

	sortChildren(root)
	return root
}

func findChild(parent *models.FileTreeNode, name string) *models.FileTreeNode {
	for _, child := range parent.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// sortChildren orders every folder's children recursively: folders before
// files, then name ascending.
func sortChildren(node *models.FileTreeNode) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return strings.Compare(a.Name, b.Name) < 0
	})
	for _, child := range node.Children {
		if child.IsFolder() {
			sortChildren(child)
		}
	}
}

// Filter produces a pruned copy of the tree containing only file nodes whose
// extension equals ext case-insensitively, keeping their ancestor chains.
// It returns nil when nothing under node matches; callers must treat a nil
// result as "no match" rather than rendering an empty tree.
func Filter(node *models.FileTreeNode, ext string) *models.FileTreeNode {
	if node == nil {
		return nil
	}

	if node.Type == models.NodeFile {
		if strings.EqualFold(extensionOf(node.Name), ext) {
			return node
		}
		return nil
	}

	var kept []*models.FileTreeNode
	for _, child := range node.Children {
		if filtered := Filter(child, ext); filtered != nil {
			kept = append(kept, filtered)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	return &models.FileTreeNode{
		Name:     node.Name,
		Type:     node.Type,
		Path:     node.Path,
		Children: kept,
	}
}

// FilePaths flattens the tree back to the paths of its file nodes,
// depth-first in display order.
func FilePaths(node *models.FileTreeNode) []string {
	if node == nil {
		return nil
	}
	if node.Type == models.NodeFile {
		return []string{node.Path}
	}
	var paths []string
	for _, child := range node.Children {
		paths = append(paths, FilePaths(child)...)
	}
	return paths
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}
