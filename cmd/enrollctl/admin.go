package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/academy-enrollment-api/internal/service"
)

func newAdminTokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint a staff access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Admin.JWTSecret == "" {
				return errors.New("JWT_SECRET is not configured")
			}
			if email == "" {
				email = cfg.Admin.Email
			}
			auth := service.NewAdminAuthService(nil, log, service.AdminAuthConfig{
				Email:  cfg.Admin.Email,
				Secret: cfg.Admin.JWTSecret,
				Issuer: cfg.Admin.JWTIssuer,
				Expiry: cfg.Admin.JWTExpiry,
			})
			token, expiresAt, err := auth.IssueToken(email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "staff email (default ADMIN_EMAIL)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" && len(args) > 0 {
				password = args[0]
			}
			if password == "" {
				return errors.New("password is required")
			}
			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "plain text password")
	return cmd
}
