package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"wayfare/internal/backend"
	"wayfare/internal/models"
	"wayfare/internal/token"

	"github.com/spf13/cobra"
)

func readPassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("WAYFARE_PASSWORD"); env != "" {
		return env, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}
	return password, nil
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(password)
			if err != nil {
				return err
			}

			user, err := a.session.Login(cmd.Context(), backend.LoginRequest{Email: email, Password: pw})
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (omit to be prompted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.KnownRole(role) {
				return fmt.Errorf("unknown role %q: use %s, %s or %s",
					role, models.RoleTourist, models.RoleHost, models.RoleDriver)
			}

			pw, err := readPassword(password)
			if err != nil {
				return err
			}

			user, err := a.session.Register(cmd.Context(), backend.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: pw,
				Role:     role,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Account created for %s (%s). Run `wayfare login` to get a token.\n", user.Name, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (omit to be prompted)")
	cmd.Flags().StringVar(&role, "role", models.RoleTourist, "account role: tourist, host or driver")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.session.Load(cmd.Context())
			if !snap.Authenticated() {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("%s <%s> (%s)\n", snap.User.Name, snap.User.Email, snap.User.Role)

			if sess, err := a.store.GetSession(cmd.Context(), cliOwnerID); err == nil && sess != nil && sess.Token != "" {
				if exp, ok := token.Exp(sess.Token); ok {
					fmt.Printf("Token expires %s\n", time.Unix(exp, 0).Format("2006-01-02 15:04:05"))
				}
			}
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && email == "" {
				return errors.New("nothing to update: pass --name and/or --email")
			}

			user, err := a.session.UpdateProfile(cmd.Context(), backend.UpdateProfileRequest{
				Name:  name,
				Email: email,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}
