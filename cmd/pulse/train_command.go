package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"pulse/internal/classifier"
	"pulse/internal/dataset"
)

func newTrainCommand(ctx *commandContext) *cobra.Command {
	var (
		kindFlag     string
		balancedFlag bool
		floorFlag    int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Assemble the labeled training set and fit the event classifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, logger, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			kindValue := cfg.Trainer.Kind
			if kindFlag != "" {
				kindValue = kindFlag
			}
			kind, ok := classifier.ParseKind(kindValue)
			if !ok {
				return fmt.Errorf("unknown classifier kind %q", kindValue)
			}

			balanced := cfg.Trainer.Balanced
			if cmd.Flags().Changed("balanced") {
				balanced = balancedFlag
			}
			floor := cfg.Trainer.Floor
			if cmd.Flags().Changed("floor") {
				floor = floorFlag
			}

			// One training run per data dir at a time; runs may be long.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "train.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire training lock: %w", err)
			}
			if !locked {
				return errors.New("another training run is already in progress for this data dir")
			}
			defer func() { _ = lock.Unlock() }()

			set, err := dataset.Assemble(cmd.Context(), st, logger, dataset.Options{
				Balanced: balanced,
				Floor:    floor,
				Rand:     newRand(cfg),
			})
			if err != nil {
				if errors.Is(err, dataset.ErrInsufficientData) {
					return fmt.Errorf("cannot train: %w", err)
				}
				return err
			}

			model, err := classifier.Fit(kind, set, classifier.Params{
				MaxDepth: cfg.Trainer.MaxDepth,
				MinLeaf:  cfg.Trainer.MinLeaf,
				Rounds:   cfg.Trainer.Rounds,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trained %s on %d rows (%d real / %d fake, balanced=%t)\n",
				kind, len(set.Rows), set.Real(), set.Fake(), balanced)
			fmt.Fprintln(out, model.Describe())
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "Classifier kind: tree or adaboost (default from config)")
	cmd.Flags().BoolVarP(&balancedFlag, "balanced", "b", false, "Downsample the larger class to match the smaller")
	cmd.Flags().IntVar(&floorFlag, "floor", 0, "Per-class floor below which archival rows pad the set")
	return cmd
}
