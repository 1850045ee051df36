package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/service/auth"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token OWNER_ID",
	Short: "Issue an access token for a deck owner",
	Long: "Issue an access token for a deck owner. Accounts are managed outside this " +
		"service; the owner ID is the UUID decks are stored under.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid owner ID %q: %w", args[0], err)
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		jwtService, err := auth.NewJWTService(cfg.Auth)
		if err != nil {
			return err
		}

		token, err := jwtService.GenerateToken(cmd.Context(), ownerID)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}
