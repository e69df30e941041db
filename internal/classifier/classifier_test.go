package classifier_test

import (
	"math/rand"
	"strings"
	"testing"

	"pulse/internal/classifier"
	"pulse/internal/dataset"
)

// separableSet builds a linearly separable set: real events have large
// message counts, fake ones small, with some noise in other features.
func separableSet(n int, rng *rand.Rand) *dataset.Set {
	set := &dataset.Set{}
	for i := 0; i < n; i++ {
		label := i % 2
		base := 10.0
		if label == 1 {
			base = 100.0
		}
		row := []float64{
			base + rng.Float64()*5,
			rng.Float64() * 10,
			rng.Float64(),
			rng.Float64(),
		}
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, label)
	}
	return set
}

func accuracy(model classifier.Model, set *dataset.Set) float64 {
	correct := 0
	for i, row := range set.Rows {
		if model.Predict(row) == set.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(set.Rows))
}

func TestTreeFitsSeparableData(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	set := separableSet(200, rng)

	model, err := classifier.Fit(classifier.KindTree, set, classifier.Params{MaxDepth: 4, MinLeaf: 2})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if acc := accuracy(model, set); acc < 0.99 {
		t.Fatalf("tree accuracy %f on separable data", acc)
	}
	if !strings.Contains(model.Describe(), "decision tree") {
		t.Fatalf("unexpected description: %s", model.Describe())
	}
}

func TestAdaBoostFitsSeparableData(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	set := separableSet(200, rng)

	model, err := classifier.Fit(classifier.KindAdaBoost, set, classifier.Params{Rounds: 20})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if acc := accuracy(model, set); acc < 0.99 {
		t.Fatalf("adaboost accuracy %f on separable data", acc)
	}
	if !strings.Contains(model.Describe(), "adaboost") {
		t.Fatalf("unexpected description: %s", model.Describe())
	}
}

func TestAdaBoostOnNoisierData(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	set := &dataset.Set{}
	// Two overlapping clusters along two features; a single stump cannot
	// separate them but a short ensemble should do well.
	for i := 0; i < 300; i++ {
		label := i % 2
		shift := float64(label) * 3
		row := []float64{
			rng.NormFloat64() + shift,
			rng.NormFloat64() + shift,
			rng.Float64(),
		}
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, label)
	}

	model, err := classifier.Fit(classifier.KindAdaBoost, set, classifier.Params{Rounds: 40})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if acc := accuracy(model, set); acc < 0.9 {
		t.Fatalf("adaboost accuracy %f on clustered data", acc)
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	if _, err := classifier.Fit(classifier.KindTree, &dataset.Set{}, classifier.Params{}); err == nil {
		t.Fatal("expected error for empty set")
	}
	bad := &dataset.Set{Rows: [][]float64{{1}}, Labels: []int{0, 1}}
	if _, err := classifier.Fit(classifier.KindTree, bad, classifier.Params{}); err == nil {
		t.Fatal("expected error for row/label mismatch")
	}
	good := &dataset.Set{Rows: [][]float64{{1}, {2}}, Labels: []int{0, 1}}
	if _, err := classifier.Fit(classifier.Kind("forest"), good, classifier.Params{}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		input    string
		expected classifier.Kind
		ok       bool
	}{
		{"tree", classifier.KindTree, true},
		{" AdaBoost ", classifier.KindAdaBoost, true},
		{"forest", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := classifier.ParseKind(tc.input)
		if ok != tc.ok || got != tc.expected {
			t.Fatalf("ParseKind(%q) = %q, %t; expected %q, %t", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

func TestTreeMajorityFallback(t *testing.T) {
	// Identical rows cannot be split; the tree must fall back to the
	// majority label rather than recurse forever.
	set := &dataset.Set{
		Rows:   [][]float64{{1, 1}, {1, 1}, {1, 1}},
		Labels: []int{1, 1, 0},
	}
	model, err := classifier.Fit(classifier.KindTree, set, classifier.Params{MaxDepth: 3, MinLeaf: 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if model.Predict([]float64{1, 1}) != 1 {
		t.Fatal("expected majority label for unsplittable data")
	}
}
