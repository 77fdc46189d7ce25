package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"passreset/internal/config"
	"passreset/internal/implementations/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aws",
		Short:         "Manage SES email templates of the password reset flow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTemplateCommand())
	cmd.AddCommand(newSendCommand())
	return cmd
}

func newTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Create, update or delete the password reset template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the password reset template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.CreateTemplate(
				cmd.Context(),
				&ses.CreateTemplateInput{Template: passwordResetTemplate(cfg.AwsEmailPasswordResetTemplate)},
			)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update the password reset template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.UpdateTemplate(
				cmd.Context(),
				&ses.UpdateTemplateInput{Template: passwordResetTemplate(cfg.AwsEmailPasswordResetTemplate)},
			)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the password reset template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.DeleteTemplate(
				cmd.Context(),
				&ses.DeleteTemplateInput{TemplateName: aws.String(cfg.AwsEmailPasswordResetTemplate)},
			)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	})
	return cmd
}

func newSendCommand() *cobra.Command {
	var (
		to       string
		name     string
		resetURL string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a sample password reset email through the template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			params, err := json.Marshal(email.PasswordResetTemplateParams{
				PasswordResetUrl: resetURL,
				Name:             name,
				ExpiresAt:        "2030-01-01 00:00:00 UTC",
			})
			if err != nil {
				return err
			}
			result, err := svc.SendTemplatedEmail(
				cmd.Context(),
				&ses.SendTemplatedEmailInput{
					Source: aws.String(cfg.AwsEmailSender),
					Destination: &types.Destination{
						CcAddresses: []string{},
						ToAddresses: []string{to},
					},
					Template:     aws.String(cfg.AwsEmailPasswordResetTemplate),
					TemplateData: aws.String(string(params)),
				},
			)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address, must be verified while in the SES sandbox")
	cmd.Flags().StringVar(&name, "name", "Test User", "Recipient name")
	cmd.Flags().StringVar(&resetURL, "url", "https://example.com/password_edit/check_reset_url?token=test", "Reset link")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newClient(ctx context.Context) (*config.Config, *ses.Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		ctx,
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ses.NewFromConfig(awsCfg), nil
}

func printResult(cmd *cobra.Command, result interface{}) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Success:")
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
