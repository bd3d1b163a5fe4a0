package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/session"
)

func newLoginCmd() *cobra.Command {
	var (
		apiURL string
		tenant string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the back-office API and print a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), apiURL, tenant, email)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the back-office REST API")
	cmd.Flags().StringVar(&tenant, "tenant", "dev", "tenant subdomain")
	cmd.Flags().StringVar(&email, "email", "", "login email (prompted when omitted)")

	return cmd
}

func runLogin(ctx context.Context, apiURL, tenant, email string) error {
	if email == "" {
		prompt := &survey.Input{Message: "Email:"}
		if err := survey.AskOne(prompt, &email, survey.WithValidator(notBlank)); err != nil {
			return err
		}
	}

	var password string
	if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(notBlank)); err != nil {
		return err
	}

	api := client.New(apiURL, tenant)
	result, err := api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", result.User.Name, result.User.Role)
	if expiry, err := session.TokenExpiry(result.Token); err == nil {
		fmt.Printf("Token expires %s\n", expiry.Format(time.RFC3339))
	}
	fmt.Println(result.Token)
	return nil
}

func newAgentTokenCmd() *cobra.Command {
	var (
		apiURL string
		tenant string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "agent-token",
		Short: "Issue an agent integration token",
		Long:  "Exchanges an operator session token for a long-lived agent token used by headless integrations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("agent-token: --token is required")
			}
			api := client.New(apiURL, tenant, client.WithTokenProvider(func() string { return token }))
			agentToken, err := api.GenerateAgentToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("agent-token: %w", err)
			}
			fmt.Println(agentToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the back-office REST API")
	cmd.Flags().StringVar(&tenant, "tenant", "dev", "tenant subdomain")
	cmd.Flags().StringVar(&token, "token", "", "operator session token")

	return cmd
}

func notBlank(value any) error {
	text, _ := value.(string)
	if strings.TrimSpace(text) == "" {
		return errors.New("a value is required")
	}
	return nil
}
