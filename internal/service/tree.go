package service

import (
	"sort"
	"strings"

	"nova/internal/domain/models"
)

// BuildFileTree reconstructs the nested folder/file hierarchy of a workspace
// from its flat stored document paths. Nodes are memoized by cumulative path
// so documents sharing a folder prefix share the same folder node. The
// function is pure: the same document list always yields a structurally
// identical tree.
func BuildFileTree(docs []models.Document) []*models.FileTreeNode {
	nodes := make(map[string]*models.FileTreeNode)
	roots := []*models.FileTreeNode{}

	for i := range docs {
		doc := docs[i]
		segments := relevantSegments(doc.Filepath)
		if len(segments) == 0 {
			continue
		}

		cumulative := ""
		for depth, segment := range segments {
			if cumulative == "" {
				cumulative = segment
			} else {
				cumulative = cumulative + "/" + segment
			}

			if _, seen := nodes[cumulative]; seen {
				continue
			}

			node := &models.FileTreeNode{
				Name: segment,
				Path: cumulative,
				Type: models.NodeFolder,
			}
			if depth == len(segments)-1 {
				node.Type = models.NodeFile
				node.DocumentID = doc.ID
				createdAt := doc.CreatedAt
				node.CreatedAt = &createdAt
			}
			nodes[cumulative] = node

			if depth == 0 {
				roots = append(roots, node)
			} else {
				parent := nodes[cumulative[:len(cumulative)-len(segment)-1]]
				parent.Children = append(parent.Children, node)
			}
		}
	}

	sortFileTree(roots)
	return roots
}

// sortFileTree orders siblings for display: folders before files, then
// case-insensitive by name within each group. Applied at render time; the
// stored rows stay untouched.
func sortFileTree(nodes []*models.FileTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == models.NodeFolder
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})

	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortFileTree(node.Children)
		}
	}
}
