package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/oauth"
	"github.com/custodia-labs/confadmin/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in with a username and password, or with single sign-on.

The password is read from the terminal without echo. When stdin is not a
terminal it is read from the first line of stdin.

Examples:
  confadmin login --username alice
  echo "$PASSWORD" | confadmin login --username alice
  confadmin login --oidc`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user and active event",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// Flags for login.
var (
	loginUsername    string
	loginOIDC        bool
	loginNoBrowser   bool
	loginOIDCTimeout time.Duration
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username for password login")
	loginCmd.Flags().BoolVar(&loginOIDC, "oidc", false, "sign in through the configured OIDC provider")
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "print the sign-in URL instead of opening a browser")
	loginCmd.Flags().DurationVar(&loginOIDCTimeout, "timeout", 5*time.Minute, "how long to wait for the OIDC callback")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := commandContext(cmd)

	if loginOIDC {
		return runLoginOIDC(ctx, cmd)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	username := strings.TrimSpace(loginUsername)
	if username == "" {
		cmd.Print("Username: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	password, err := readPassword(cmd, in)
	if err != nil {
		return err
	}

	if err := authService.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmd.Printf("Logged in as %s.\n", username)
	return nil
}

// readPassword prompts without echo on a terminal and reads a line otherwise.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLoginOIDC(ctx context.Context, cmd *cobra.Command) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	server := oauth.NewCallbackServer(0, settings.OIDC.RedirectPath)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	authURL, state, err := authService.OIDCAuthURL(server.RedirectURI())
	if err != nil {
		if errors.Is(err, domain.ErrOIDCNotConfigured) {
			return fmt.Errorf("%w: run 'confadmin settings oidc --provider <url> --client-id <id>' first", err)
		}
		return err
	}
	server.Expect(state)

	cmd.Println("Open this URL to sign in:")
	cmd.Printf("  %s\n\n", authURL)
	if !loginNoBrowser {
		if err := oauth.OpenBrowser(authURL); err != nil {
			cmd.Printf("Could not open a browser: %v\n", err)
		}
	}
	cmd.Println("Waiting for the provider to redirect back...")

	waitCtx, cancel := context.WithTimeout(ctx, loginOIDCTimeout)
	defer cancel()
	code, err := server.WaitForCode(waitCtx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	if err := authService.CompleteOIDC(ctx, code); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmd.Println("Logged in.")
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(commandContext(cmd)); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := commandContext(cmd)

	sess, err := authService.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.IsAuthenticated() {
		cmd.Println("Not logged in. Run 'confadmin login'.")
		return nil
	}

	var expires any = "unknown"
	if info, err := authService.TokenInfo(ctx); err == nil && !info.ExpiresAt.IsZero() {
		expires = info.ExpiresAt
		if info.IsExpired() {
			expires = "expired"
		}
	}

	event := sess.ActiveEvent
	if event == "" {
		event = "(none)"
	}
	return renderRecord(cmd.OutOrStdout(), outputFormat,
		[]string{"user", "email", "method", "event", "signed_in", "expires"},
		[]any{sess.User.Name, sess.User.Email, sess.Method, event, sess.CreatedAt, expires},
	)
}
