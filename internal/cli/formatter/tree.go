package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one rendered line of a plan tree.
type TreeItem struct {
	ID       string
	Title    string
	NodeType domain.NodeType
	// Ancestors records, per ancestor level, whether that ancestor was the
	// last of its siblings. It decides whether a pipe is drawn.
	Ancestors []bool
	IsLast    bool
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// BuildTree orders nodes depth-first under their parents. Siblings keep the
// order they arrive in, so pass nodes sorted by display order. Nodes whose
// parent is missing from the list are treated as roots.
func BuildTree(nodes []*domain.PlanNode, detail func(*domain.PlanNode) string) []TreeItem {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	children := make(map[string][]*domain.PlanNode, len(nodes))
	var roots []*domain.PlanNode
	for _, n := range nodes {
		if n.ParentID == nil || !known[*n.ParentID] {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	items := make([]TreeItem, 0, len(nodes))
	var walk func(list []*domain.PlanNode, ancestors []bool)
	walk = func(list []*domain.PlanNode, ancestors []bool) {
		for i, n := range list {
			last := i == len(list)-1
			item := TreeItem{
				ID:        n.ID,
				Title:     n.Title,
				NodeType:  n.NodeType,
				Ancestors: ancestors,
				IsLast:    last,
			}
			if detail != nil {
				item.Detail = detail(n)
			}
			items = append(items, item)

			next := make([]bool, len(ancestors)+1)
			copy(next, ancestors)
			next[len(ancestors)] = last
			walk(children[n.ID], next)
		}
	}
	walk(roots, nil)
	return items
}

// RenderTree draws items with box-drawing connectors. Roots have no
// connector; container nodes are bold and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}
	lines := make([]line, len(items))
	maxWidth := 0

	for idx, item := range items {
		var prefix string
		if len(item.Ancestors) > 0 {
			for _, ancestorLast := range item.Ancestors[1:] {
				if ancestorLast {
					prefix += treeBlank
				} else {
					prefix += treePipe
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.NodeType.IsEntity() {
			title = StyleFg.Render(title)
		} else {
			title = StyleBold.Render(title)
		}
		content := prefix + title + " " + StyleDim.Render(fmt.Sprintf("(%s %s)", item.NodeType, shortID(item.ID)))
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		if w := lipgloss.Width(content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		if l.badge == "" {
			b.WriteString(l.content + "\n")
			continue
		}
		pad := maxWidth - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
	}
	return b.String()
}
