// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"sort"
	"strings"
)

// NodeType discriminates tree nodes.
type NodeType string

// Tree node types.
const (
	// NodeFile is a leaf node backed by a resource.
	NodeFile NodeType = "file"
	// NodeDirectory is an intermediate node; only directories carry children.
	NodeDirectory NodeType = "directory"
)

// TreeNode is one node of a resource directory tree.
type TreeNode struct {
	// Name is the path segment of this node.
	Name string `json:"name"`
	// Path is the full virtual path of this node.
	Path string `json:"path"`
	// Type discriminates files from directories.
	Type NodeType `json:"type"`
	// Children is present only for directories.
	Children []*TreeNode `json:"children,omitempty"`
}

// BuildTree converts a flat list of virtual paths into a directory tree.
// Paths are sorted lexicographically first, so identical path sets always
// produce a structurally identical tree, independent of input order.
func BuildTree(paths []string) []*TreeNode {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var roots []*TreeNode
	dirs := make(map[string]*TreeNode)

	for _, p := range sorted {
		segments := strings.Split(p, "/")
		var parentPath string
		var parent *TreeNode

		for i, seg := range segments {
			nodePath := seg
			if parentPath != "" {
				nodePath = parentPath + "/" + seg
			}

			if i == len(segments)-1 {
				file := &TreeNode{Name: seg, Path: nodePath, Type: NodeFile}
				if parent == nil {
					roots = append(roots, file)
				} else {
					parent.Children = append(parent.Children, file)
				}
				break
			}

			dir, ok := dirs[nodePath]
			if !ok {
				dir = &TreeNode{Name: seg, Path: nodePath, Type: NodeDirectory}
				dirs[nodePath] = dir
				if parent == nil {
					roots = append(roots, dir)
				} else {
					parent.Children = append(parent.Children, dir)
				}
			}

			parentPath = nodePath
			parent = dir
		}
	}

	return roots
}
