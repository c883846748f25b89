package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"equipinspect/internal/database"
	"equipinspect/internal/modules/admin"
	"equipinspect/internal/pkg/validator"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := database.Migrate(rt.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

var loadChecklistCmd = &cobra.Command{
	Use:   "load-checklist",
	Short: "Load the default equipment checklist items",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		results, err := rt.app.Checklist.LoadDefaults(ctx)
		out := cmd.OutOrStdout()
		for _, res := range results {
			if res.Created {
				fmt.Fprintf(out, "Successfully created checklist item: %q\n", res.Item.Description)
			} else {
				fmt.Fprintf(out, "Checklist item already exists: %q\n", res.Item.Description)
			}
		}
		if err != nil {
			return err
		}

		total, err := rt.app.Checklist.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Finished loading checklist items. Total items: %d\n", total)
		return nil
	},
}

var accountFlags struct {
	username  string
	password  string
	email     string
	firstName string
	lastName  string
	staff     bool
	superuser bool
}

var createAccountCmd = &cobra.Command{
	Use:   "create-account",
	Short: "Create a login account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		req := admin.CreateAccountRequest{
			Username:    accountFlags.username,
			Password:    accountFlags.password,
			Email:       accountFlags.email,
			FirstName:   accountFlags.firstName,
			LastName:    accountFlags.lastName,
			IsStaff:     accountFlags.staff,
			IsSuperuser: accountFlags.superuser,
		}
		if err := validator.Struct(req); err != nil {
			return validator.Translate(err)
		}
		a, err := rt.app.Admin.CreateAccount(ctx, nil, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (id %d)\n", a.Username, a.ID)
		return nil
	},
}

var createTokensCmd = &cobra.Command{
	Use:   "create-tokens",
	Short: "Create authentication tokens for active accounts that have none",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		issued, total, err := rt.app.Auth.IssueMissing(ctx)
		out := cmd.OutOrStdout()
		for _, t := range issued {
			fmt.Fprintf(out, "Created token for user: %s - Token: %s\n", t.Username, t.Token)
		}
		if err != nil {
			return err
		}
		if len(issued) == 0 {
			fmt.Fprintln(out, "All users already have tokens")
		}
		fmt.Fprintf(out, "Total users with tokens: %d\n", total)
		return nil
	},
}

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Delete expired authentication tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		n, err := rt.app.Auth.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "auth cleanup completed: auth_tokens=%d\n", n)
		return nil
	},
}

func init() {
	f := createAccountCmd.Flags()
	f.StringVar(&accountFlags.username, "username", "", "login name")
	f.StringVar(&accountFlags.password, "password", "", "password (min 8 characters)")
	f.StringVar(&accountFlags.email, "email", "", "email address")
	f.StringVar(&accountFlags.firstName, "first-name", "", "first name")
	f.StringVar(&accountFlags.lastName, "last-name", "", "last name")
	f.BoolVar(&accountFlags.staff, "staff", false, "grant staff access to the admin endpoints")
	f.BoolVar(&accountFlags.superuser, "superuser", false, "grant superuser status")
	_ = createAccountCmd.MarkFlagRequired("username")
	_ = createAccountCmd.MarkFlagRequired("password")
}
