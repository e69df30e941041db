package classifier

import (
	"fmt"
	"sort"
)

type treeParams struct {
	maxDepth int
	minLeaf  int
}

// Tree is a CART decision tree grown with weighted gini impurity.
type Tree struct {
	root   *treeNode
	nodes  int
	depth  int
	params treeParams
}

type treeNode struct {
	leaf      bool
	label     int
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func fitTree(rows [][]float64, labels []int, weights []float64, params treeParams) *Tree {
	t := &Tree{params: params}
	indices := make([]int, len(rows))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.grow(rows, labels, weights, indices, params.maxDepth)
	return t
}

// Predict implements Model.
func (t *Tree) Predict(row []float64) int {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.label
}

// Describe implements Model.
func (t *Tree) Describe() string {
	return fmt.Sprintf("decision tree: %d nodes, depth %d", t.nodes, t.depth)
}

func (t *Tree) grow(rows [][]float64, labels []int, weights []float64, indices []int, depthLeft int) *treeNode {
	t.nodes++
	if d := t.params.maxDepth - depthLeft; d > t.depth {
		t.depth = d
	}

	majority, pure := weightedMajority(labels, weights, indices)
	if pure || depthLeft <= 0 || len(indices) < 2*t.params.minLeaf {
		return &treeNode{leaf: true, label: majority}
	}

	feature, threshold, ok := bestSplit(rows, labels, weights, indices, t.params.minLeaf)
	if !ok {
		return &treeNode{leaf: true, label: majority}
	}

	var left, right []int
	for _, idx := range indices {
		if rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, label: majority}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(rows, labels, weights, left, depthLeft-1),
		right:     t.grow(rows, labels, weights, right, depthLeft-1),
	}
}

func weightedMajority(labels []int, weights []float64, indices []int) (label int, pure bool) {
	var w0, w1 float64
	for _, idx := range indices {
		if labels[idx] == 1 {
			w1 += weights[idx]
		} else {
			w0 += weights[idx]
		}
	}
	if w1 > w0 {
		return 1, w0 == 0
	}
	return 0, w1 == 0
}

// bestSplit scans every feature for the threshold minimizing weighted gini
// impurity. Thresholds sit midway between adjacent distinct values.
func bestSplit(rows [][]float64, labels []int, weights []float64, indices []int, minLeaf int) (feature int, threshold float64, ok bool) {
	if len(indices) == 0 {
		return 0, 0, false
	}
	features := len(rows[indices[0]])

	var totalW, totalW1 float64
	for _, idx := range indices {
		totalW += weights[idx]
		if labels[idx] == 1 {
			totalW1 += weights[idx]
		}
	}

	best := gini(totalW1, totalW-totalW1)
	sorted := make([]int, len(indices))

	for f := 0; f < features; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool {
			return rows[sorted[i]][f] < rows[sorted[j]][f]
		})

		var leftW, leftW1 float64
		for pos := 0; pos < len(sorted)-1; pos++ {
			idx := sorted[pos]
			leftW += weights[idx]
			if labels[idx] == 1 {
				leftW1 += weights[idx]
			}

			current := rows[idx][f]
			next := rows[sorted[pos+1]][f]
			if current == next {
				continue
			}
			if pos+1 < minLeaf || len(sorted)-pos-1 < minLeaf {
				continue
			}

			rightW := totalW - leftW
			rightW1 := totalW1 - leftW1
			impurity := (leftW*gini(leftW1, leftW-leftW1) + rightW*gini(rightW1, rightW-rightW1)) / totalW
			if impurity < best {
				best = impurity
				feature = f
				threshold = (current + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// gini computes impurity from per-class weight mass.
func gini(w1, w0 float64) float64 {
	total := w0 + w1
	if total == 0 {
		return 0
	}
	p1 := w1 / total
	p0 := w0 / total
	return 1 - p0*p0 - p1*p1
}
