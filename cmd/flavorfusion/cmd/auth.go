package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(env *Env) *cobra.Command {
	var email, password string
	var demo bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Long: `Sign in with an email and password, or with the demo account.

Examples:
  flavorfusion login --email alice@example.com --password secret
  flavorfusion login --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !demo && (email == "" || password == "") {
				return fmt.Errorf("--email and --password are required unless --demo is set")
			}
			c, err := openClient(cmd.Context(), env)
			if err != nil {
				return err
			}
			if demo {
				err = c.DemoLogin(cmd.Context())
			} else {
				err = c.Login(cmd.Context(), email, password)
			}
			if err != nil {
				return describe(err)
			}
			if err := c.saveToken(); err != nil {
				return err
			}
			u := c.Session().User
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&demo, "demo", false, "use the demo account")
	return cmd
}

func newSignupCmd(env *Env) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd.Context(), env)
			if err != nil {
				return err
			}
			if err := c.Signup(cmd.Context(), name, email, password); err != nil {
				return describe(err)
			}
			if err := c.saveToken(); err != nil {
				return err
			}
			u := c.Session().User
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	for _, f := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd.Context(), env)
			if err != nil {
				return err
			}
			c.Logout(cmd.Context())
			c.gw.SetToken("")
			if err := c.saveToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd.Context(), env)
			if err != nil {
				return err
			}
			u, err := c.signedIn()
			if err != nil {
				return describe(err)
			}
			role := "user"
			if u.IsAdmin() {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", u.Name, u.Email, role)
			if url := c.AdminURL(); url != "" && u.IsAdmin() {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin console: %s\n", url)
			}
			return nil
		},
	}
}
