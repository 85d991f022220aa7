package cli

import (
	"fmt"
	"os"

	"diskmosaic/internal/middleware"
	"diskmosaic/internal/services"

	"github.com/spf13/cobra"
)

var tokenName string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a token for the API and WebSocket",
	Long: `Issues a token signed with JWT_SECRET, or with the key persisted in
~/.disk-mosaic/secret-key. Send it as "Authorization: Bearer <token>" or
as the token query parameter of /ws.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := tokenName
		if name == "" {
			name, _ = os.Hostname()
		}
		if !middleware.NewInputValidator().ValidateClientName(name) {
			return fmt.Errorf("invalid client name %q", name)
		}

		services.InitAuthService(cfg.JWTSecret, cfg.TokenExpiry)
		token, err := services.GenerateToken(name)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		middleware.NewSecurityLogger().LogTokenGenerated(name)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "token:   %s\n", token)
		fmt.Fprintf(out, "expires: %s\n", services.GetTokenExpiry().Format("2006-01-02"))
		fmt.Fprintf(out, "ws:      ws://%s/ws?token=%s\n", cfg.ListenAddr, token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "client name embedded in the token (default hostname)")
}
