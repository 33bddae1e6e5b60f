package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage who may access the event",
	Long: `List the event's users, find new ones, and grant or revoke access.

Permissions: view, update, admin.`,
	Args: cobra.NoArgs,
	RunE: runUsersList,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users of the event",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find users not yet on the event",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersSearch,
}

var usersSetCmd = &cobra.Command{
	Use:   "set [user-id] [permission]",
	Short: "Grant a permission (default view)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUsersSet,
}

var usersRemoveCmd = &cobra.Command{
	Use:     "remove [user-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a user from the event",
	Args:    cobra.ExactArgs(1),
	RunE:    runUsersRemove,
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersSearchCmd)
	usersCmd.AddCommand(usersSetCmd)
	usersCmd.AddCommand(usersRemoveCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	users, err := userService.List(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	t := newTabular("id", "name", "email", "permission")
	for _, u := range users {
		perm := string(u.Permission)
		if outputFormat == formatTable {
			perm = permissionLabel(u.Permission)
		}
		t.add(u.ID, u.Name, u.Email, perm)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No users assigned.")
}

func runUsersSearch(cmd *cobra.Command, args []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}
	if len([]rune(strings.TrimSpace(args[0]))) < domain.MinUserQueryLength {
		return fmt.Errorf("%w: query must have at least %d characters", domain.ErrInvalidInput, domain.MinUserQueryLength)
	}

	found, err := userService.Search(ctx, slug, args[0])
	if err != nil {
		return fmt.Errorf("failed to search users: %w", err)
	}

	t := newTabular("id", "name", "email")
	for _, u := range found {
		t.add(u.ID, u.Name, u.Email)
	}
	return renderList(cmd.OutOrStdout(), outputFormat, t, "No matching users.")
}

func runUsersSet(cmd *cobra.Command, args []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}

	perm := domain.DefaultPermission
	if len(args) == 2 {
		perm = domain.Permission(strings.ToLower(strings.TrimSpace(args[1])))
	}
	return userService.SetPermission(ctx, slug, args[0], perm)
}

func runUsersRemove(cmd *cobra.Command, args []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	ctx := commandContext(cmd)
	slug, err := resolveEvent(ctx)
	if err != nil {
		return err
	}
	return userService.Remove(ctx, slug, args[0])
}

// permissionLabel renders a permission for people: "Admin", "You".
func permissionLabel(p domain.Permission) string {
	switch p {
	case domain.PermissionSelf:
		return "You"
	case domain.PermissionNone:
		return "-"
	default:
		return cases.Title(language.English).String(string(p))
	}
}
