package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

type fetchOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	*profile.Result
}

func newFetchCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <username>",
		Short: "Looks up one profile and prints it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := profile.CleanUsername(args[0])
			if username == "" {
				return errors.New("invalid username")
			}

			cfg, logger, err := bootstrap(*cfgFile)
			if err != nil {
				return err
			}
			defer syncLogger(logger)

			result, fetchErr := newProfileService(cfg, logger).Fetch(cmd.Context(), username)
			out := fetchOutput{Success: fetchErr == nil}
			switch {
			case fetchErr == nil:
				out.Result = &result
			case errors.Is(fetchErr, profile.ErrNotFound):
				out.Error = "User not found"
			default:
				out.Error = fetchErr.Error()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			if fetchErr != nil {
				return fmt.Errorf("fetch %s: %w", username, fetchErr)
			}
			return nil
		},
	}
}
