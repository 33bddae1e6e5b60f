package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend URL and single sign-on.

Settings live in ~/.confadmin/config.toml. CONFADMIN_API_URL,
CONFADMIN_OIDC_PROVIDER_URL and CONFADMIN_OIDC_CLIENT_ID override them,
also when set in a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAPIURLCmd = &cobra.Command{
	Use:   "api-url [url]",
	Short: "Set the backend API URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAPIURL,
}

var settingsOIDCCmd = &cobra.Command{
	Use:   "oidc",
	Short: "Configure single sign-on",
	Long: `Set the OIDC provider authorization URL and client id.

Example:
  confadmin settings oidc --provider https://idp.example.org/authorize --client-id confadmin`,
	Args: cobra.NoArgs,
	RunE: runSettingsOIDC,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

// Flags for settings oidc.
var (
	oidcProvider string
	oidcClientID string
)

func init() {
	settingsOIDCCmd.Flags().StringVar(&oidcProvider, "provider", "", "authorization endpoint of the provider")
	settingsOIDCCmd.Flags().StringVar(&oidcClientID, "client-id", "", "client id registered with the provider")
	_ = settingsOIDCCmd.MarkFlagRequired("provider")
	_ = settingsOIDCCmd.MarkFlagRequired("client-id")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAPIURLCmd)
	settingsCmd.AddCommand(settingsOIDCCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	oidcStatus := "not configured"
	if settingsService.IsOIDCConfigured() {
		oidcStatus = "configured"
	}
	return renderRecord(cmd.OutOrStdout(), outputFormat,
		[]string{"api_url", "rate_limit", "timeout", "oidc_provider", "oidc_client_id",
			"oidc_redirect_path", "oidc_scope", "oidc"},
		[]any{settings.API.BaseURL, settings.API.RateLimit, settings.API.Timeout.String(),
			settings.OIDC.ProviderURL, settings.OIDC.ClientID, settings.OIDC.RedirectPath,
			settings.OIDC.Scope, oidcStatus},
	)
}

func runSettingsAPIURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetAPIURL(args[0]); err != nil {
		return fmt.Errorf("failed to set API URL: %w", err)
	}
	cmd.Printf("API URL set to %s\n", strings.TrimRight(args[0], "/"))
	return nil
}

func runSettingsOIDC(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetOIDC(oidcProvider, oidcClientID); err != nil {
		return fmt.Errorf("failed to set OIDC settings: %w", err)
	}
	cmd.Println("OIDC settings saved. Sign in with 'confadmin login --oidc'.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("confadmin Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Backend")
	cmd.Println("---------------")
	cmd.Printf("API URL [%s]: ", settings.API.BaseURL)
	if apiURL := readLine(reader); apiURL != "" {
		if err := settingsService.SetAPIURL(apiURL); err != nil {
			return fmt.Errorf("failed to set API URL: %w", err)
		}
	}
	cmd.Println()

	cmd.Println("Step 2: Single sign-on (optional)")
	cmd.Println("---------------------------------")
	cmd.Printf("Provider URL [%s]: ", settings.OIDC.ProviderURL)
	provider := readLine(reader)
	if provider == "" {
		provider = settings.OIDC.ProviderURL
	}
	cmd.Printf("Client ID [%s]: ", settings.OIDC.ClientID)
	clientID := readLine(reader)
	if clientID == "" {
		clientID = settings.OIDC.ClientID
	}
	if provider != "" && clientID != "" &&
		(provider != settings.OIDC.ProviderURL || clientID != settings.OIDC.ClientID) {
		if err := settingsService.SetOIDC(provider, clientID); err != nil {
			return fmt.Errorf("failed to set OIDC settings: %w", err)
		}
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	return nil
}

// readLine reads a line from the reader and trims whitespace.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n') //nolint:errcheck // EOF returns what was read
	return strings.TrimSpace(line)
}
