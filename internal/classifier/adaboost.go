package classifier

import (
	"errors"
	"fmt"
	"math"
)

// AdaBoost is a boosted ensemble of depth-1 decision stumps.
type AdaBoost struct {
	stumps []*Tree
	alphas []float64
}

func fitAdaBoost(rows [][]float64, labels []int, rounds int) (*AdaBoost, error) {
	n := len(rows)
	weights := uniformWeights(n)
	model := &AdaBoost{}

	for round := 0; round < rounds; round++ {
		stump := fitTree(rows, labels, weights, treeParams{maxDepth: 1, minLeaf: 1})

		var errSum float64
		predictions := make([]int, n)
		for i, row := range rows {
			predictions[i] = stump.Predict(row)
			if predictions[i] != labels[i] {
				errSum += weights[i]
			}
		}

		// A weak learner no better than chance ends boosting.
		if errSum >= 0.5 {
			break
		}
		if errSum <= 0 {
			// Perfect stump dominates the vote; nothing left to reweight.
			model.stumps = append(model.stumps, stump)
			model.alphas = append(model.alphas, 10)
			break
		}

		alpha := 0.5 * math.Log((1-errSum)/errSum)
		model.stumps = append(model.stumps, stump)
		model.alphas = append(model.alphas, alpha)

		var total float64
		for i := range weights {
			margin := signed(labels[i]) * signed(predictions[i])
			weights[i] *= math.Exp(-alpha * margin)
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}
	}

	if len(model.stumps) == 0 {
		return nil, errors.New("fit adaboost: no usable weak learner")
	}
	return model, nil
}

// Predict implements Model: the sign of the weighted stump vote.
func (a *AdaBoost) Predict(row []float64) int {
	var score float64
	for i, stump := range a.stumps {
		score += a.alphas[i] * signed(stump.Predict(row))
	}
	if score > 0 {
		return 1
	}
	return 0
}

// Describe implements Model.
func (a *AdaBoost) Describe() string {
	return fmt.Sprintf("adaboost ensemble: %d stumps", len(a.stumps))
}

// signed maps a 0/1 label onto the {-1, +1} margin domain.
func signed(label int) float64 {
	if label == 1 {
		return 1
	}
	return -1
}
