package main

import (
	"errors"
	"fmt"
	"journald/internal/di"

	"github.com/spf13/cobra"
)

var checkEmailTo string

var checkEmailCmd = &cobra.Command{
	Use:   "check-email",
	Short: "Send a test email to verify SMTP settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		mail, err := di.InitMailService(&flags)
		if err != nil {
			return err
		}
		if !mail.Enabled() {
			return errors.New("GMAIL_USER and GMAIL_APP_PASSWORD must be set")
		}
		if err = mail.SendTest(cmd.Context(), checkEmailTo); err != nil {
			return fmt.Errorf("sending test email: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Test email sent")
		return nil
	},
}

func init() {
	checkEmailCmd.Flags().StringVar(&checkEmailTo, "to", "", "recipient (defaults to the sender account)")
}
