package model

import "fmt"

// Node is one node of a regression tree. Leaves carry a value; internal
// nodes route on feature <= threshold (left) or > threshold (right).
type Node struct {
	Feature   int      `json:"feature"`
	Threshold float64  `json:"threshold"`
	Left      *Node    `json:"left,omitempty"`
	Right     *Node    `json:"right,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

func (n *Node) validate(featureCount int) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if n.Leaf != nil {
		return nil
	}
	if n.Feature < 0 || n.Feature >= featureCount {
		return fmt.Errorf("split references feature %d of %d", n.Feature, featureCount)
	}
	if n.Left == nil || n.Right == nil {
		return fmt.Errorf("split node missing a child")
	}
	if err := n.Left.validate(featureCount); err != nil {
		return err
	}
	return n.Right.validate(featureCount)
}

func (n *Node) walk(features []float64) float64 {
	node := n
	for node.Leaf == nil {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return *node.Leaf
}

// Predict sums the base prediction and every tree's contribution for the
// given feature vector.
func (a *Artifact) Predict(features []float64) float64 {
	sum := a.Metadata.BasePrediction
	for _, tree := range a.Trees {
		sum += tree.walk(features)
	}
	return sum
}
