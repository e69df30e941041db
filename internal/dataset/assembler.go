// Package dataset turns labeled events into a balanced, shuffled training
// set. Two sources feed it: the live events store (definitive labels) and
// the archival event_trainer table, which only pads small classes.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"pulse/internal/event"
	"pulse/internal/logging"
	"pulse/internal/store"
)

// ErrInsufficientData indicates a training class is empty after archival
// padding; fitting on a single class is refused.
var ErrInsufficientData = errors.New("insufficient training data")

// Source is the slice of the store dataset assembly reads. Reads are
// snapshot-style; assembly never blocks concurrent labeling.
type Source interface {
	LabeledEvents(ctx context.Context) ([]*event.Event, error)
	TrainerRows(ctx context.Context) ([]store.TrainerRow, error)
}

// Options controls dataset assembly.
type Options struct {
	// Balanced downsamples the larger class to the smaller class's size.
	Balanced bool
	// Floor is the per-class count below which archival rows are pulled in.
	Floor int
	// Rand drives downsampling and the final shuffle. Required.
	Rand *rand.Rand
}

// Set is an assembled training set. Rows[i] carries Labels[i] through any
// shuffle.
type Set struct {
	Rows   [][]float64
	Labels []int
}

// Real and Fake report per-class row counts.
func (s *Set) Real() int { return s.count(event.VerificationReal) }
func (s *Set) Fake() int { return s.count(event.VerificationFake) }

func (s *Set) count(label int) int {
	n := 0
	for _, l := range s.Labels {
		if l == label {
			n++
		}
	}
	return n
}

// Assemble gathers labeled rows, pads from the archival table when a class
// is under the floor, optionally balances, and applies one synchronized
// random permutation to rows and labels.
func Assemble(ctx context.Context, source Source, logger *slog.Logger, opts Options) (*Set, error) {
	if opts.Rand == nil {
		return nil, errors.New("assemble: random source is required")
	}
	log := logging.WithComponent(logger, "dataset")

	events, err := source.LabeledEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	var real, fake [][]float64
	for _, ev := range events {
		label, ok := ev.Label()
		if !ok {
			continue
		}
		if label == event.VerificationReal {
			real = append(real, ev.Payload.FeatureRow())
		} else {
			fake = append(fake, ev.Payload.FeatureRow())
		}
	}

	// Archival rows supplement both classes until exhausted; they never
	// replace live rows.
	if min(len(real), len(fake)) < opts.Floor {
		archival, err := source.TrainerRows(ctx)
		if err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}
		for _, row := range archival {
			if row.Verification == event.VerificationReal {
				real = append(real, row.Payload.FeatureRow())
			} else {
				fake = append(fake, row.Payload.FeatureRow())
			}
		}
		log.Info("archival padding applied",
			slog.Int("archival", len(archival)),
			slog.Int("real", len(real)),
			slog.Int("fake", len(fake)),
		)
	}

	if len(real) == 0 || len(fake) == 0 {
		return nil, fmt.Errorf("%w: %d real, %d fake", ErrInsufficientData, len(real), len(fake))
	}

	if opts.Balanced {
		n := min(len(real), len(fake))
		real = sampleRows(real, n, opts.Rand)
		fake = sampleRows(fake, n, opts.Rand)
	}

	set := &Set{
		Rows:   make([][]float64, 0, len(real)+len(fake)),
		Labels: make([]int, 0, len(real)+len(fake)),
	}
	for _, row := range real {
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, event.VerificationReal)
	}
	for _, row := range fake {
		set.Rows = append(set.Rows, row)
		set.Labels = append(set.Labels, event.VerificationFake)
	}

	// One permutation applied to rows and labels together, so class order
	// carries no positional signal into training.
	opts.Rand.Shuffle(len(set.Rows), func(i, j int) {
		set.Rows[i], set.Rows[j] = set.Rows[j], set.Rows[i]
		set.Labels[i], set.Labels[j] = set.Labels[j], set.Labels[i]
	})

	log.Info("training set assembled",
		slog.Int("rows", len(set.Rows)),
		slog.Int("real", set.Real()),
		slog.Int("fake", set.Fake()),
		slog.Bool("balanced", opts.Balanced),
	)
	return set, nil
}

// sampleRows draws n rows uniformly without replacement.
func sampleRows(rows [][]float64, n int, rng *rand.Rand) [][]float64 {
	if n >= len(rows) {
		return rows
	}
	indices := rng.Perm(len(rows))[:n]
	out := make([][]float64, 0, n)
	for _, idx := range indices {
		out = append(out, rows[idx])
	}
	return out
}
