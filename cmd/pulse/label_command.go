package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pulse/internal/labeling"
)

var verdictShortcuts = map[string]string{
	"r": string(labeling.VerdictReal),
	"f": string(labeling.VerdictFake),
	"m": string(labeling.VerdictMoreData),
	"s": string(labeling.VerdictStop),
}

func newLabelCommand(ctx *commandContext) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Run an interactive labeling session on this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return errors.New("--user is required")
			}

			cfg, st, logger, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			messenger := newConsoleMessenger(cmd.OutOrStdout())
			auth := labeling.NewStaticAuthorizer(cfg.Labeling.Admins, cfg.Labeling.Testers)
			manager := labeling.NewManager(cfg, st, messenger, auth, logger,
				labeling.WithRand(newRand(cfg)))

			if err := manager.Start(cmd.Context(), userID); err != nil {
				switch {
				case errors.Is(err, labeling.ErrNotAuthorized):
					return fmt.Errorf("user %s is not in labeling.admins", userID)
				case errors.Is(err, labeling.ErrNoCandidates):
					// Nothing to label; the messenger already said so.
					return nil
				}
				return err
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				input := strings.TrimSpace(scanner.Text())
				if verdict, ok := verdictShortcuts[strings.ToLower(input)]; ok {
					input = verdict
				}

				err := manager.Submit(cmd.Context(), userID, input)
				switch {
				case err == nil:
				case errors.Is(err, labeling.ErrUnknownVerdict):
					// Already acknowledged; keep the session going.
				case errors.Is(err, labeling.ErrNoCandidates):
					return nil
				case errors.Is(err, labeling.ErrNoActiveSession):
					return nil
				default:
					fmt.Fprintf(cmd.ErrOrStderr(), "verdict failed: %v\n", err)
				}

				if _, active := manager.ActiveSession(userID); !active {
					return nil
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id for the session (must be an admin)")
	return cmd
}
