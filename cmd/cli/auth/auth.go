package auth

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/crucial707/blogspace/cmd/cli/config"
	"github.com/crucial707/blogspace/cmd/cli/output"
	"github.com/crucial707/blogspace/cmd/cli/root"
	"github.com/crucial707/blogspace/internal/client"
	"github.com/spf13/cobra"
)

// InitAuth registers account commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	accountCmd.AddCommand(deleteAccountCmd(), activityCmd())

	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		passwordCmd(),
		accountCmd,
	)
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and its blog",
		Long:  "Register a new user. A blog is created automatically and the returned token is stored locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			username = orPrompt(cmd.OutOrStdout(), in, "Username", username)
			email = orPrompt(cmd.OutOrStdout(), in, "Email", email)
			password = orPrompt(cmd.OutOrStdout(), in, "Password", password)

			s, err := config.NewClient().Register(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			if err := config.SaveToken(s.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			return printSession(cmd, s)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (3-30 characters)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			email = orPrompt(cmd.OutOrStdout(), in, "Email", email)
			password = orPrompt(cmd.OutOrStdout(), in, "Password", password)

			s, err := config.NewClient().Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if err := config.SaveToken(s.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			return printSession(cmd, s)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		Long:  "Tokens are not revoked server side; logout only forgets the local copy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			existed, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !existed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Change Password
// ==========================
func passwordCmd() *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			current = orPrompt(cmd.OutOrStdout(), in, "Current password", current)
			next = orPrompt(cmd.OutOrStdout(), in, "New password", next)

			if err := config.NewClient().ChangePassword(cmd.Context(), token, current, next); err != nil {
				return fmt.Errorf("failed to change password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}

// ==========================
// Delete Account
// ==========================
func deleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account, blog and all posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			if !yes {
				answer := orPrompt(cmd.OutOrStdout(), bufio.NewReader(cmd.InOrStdin()),
					"This deletes your blog and all posts. Type 'delete' to confirm", "")
				if answer != "delete" {
					return fmt.Errorf("aborted")
				}
			}
			if err := config.NewClient().DeleteAccount(cmd.Context(), token); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			if _, err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// ==========================
// Activity
// ==========================
func activityCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent account activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			entries, err := config.NewClient().Activity(cmd.Context(), token, limit, offset)
			if err != nil {
				return fmt.Errorf("failed to fetch activity: %w", err)
			}
			w := cmd.OutOrStdout()
			if root.JSONOutput {
				return output.PrintJSON(w, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "No activity recorded.")
				return nil
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Action,
					fmt.Sprintf("%s #%d", e.ResourceType, e.ResourceID),
					output.Truncate(e.Details, 40),
				})
			}
			output.RenderTable(w, []string{"When", "Action", "Resource", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show (1-200)")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	return cmd
}

func printSession(cmd *cobra.Command, s *client.Session) error {
	w := cmd.OutOrStdout()
	if root.JSONOutput {
		return output.PrintJSON(w, s)
	}
	fmt.Fprintln(w, s.Message+". Token stored locally.")
	pairs := [][2]string{
		{"User", fmt.Sprintf("%s (#%d)", s.User.Username, s.User.ID)},
		{"Email", s.User.Email},
	}
	if s.Blog != nil {
		pairs = append(pairs, [2]string{"Blog", fmt.Sprintf("%s (%s)", s.Blog.Name, s.Blog.Subdomain)})
	}
	if !s.ExpiresAt.IsZero() {
		pairs = append(pairs, [2]string{"Expires", s.ExpiresAt.Local().Format("2006-01-02 15:04")})
	}
	output.RenderKV(w, pairs)
	return nil
}

// orPrompt returns val, or asks for it on w and reads a line from in.
func orPrompt(w io.Writer, in *bufio.Reader, label, val string) string {
	if val != "" {
		return val
	}
	fmt.Fprintf(w, "%s: ", label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
