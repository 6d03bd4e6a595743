package ses

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"fedauth/internal/config"
	"fedauth/internal/port"
)

// SendEmailAPI is the subset of the SES client used here.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      SendEmailAPI
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender. Static credentials are
// used when both keys are set, otherwise the default AWS chain applies.
func NewSESSender(ctx context.Context, cfg config.EmailConfig) (port.EmailSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(awsCfg), cfg.FromAddress, cfg.FromName), nil
}

// NewWithClient wraps an existing SES client.
func NewWithClient(client SendEmailAPI, fromAddress, fromName string) port.EmailSender {
	return &sesSender{client: client, fromAddress: fromAddress, fromName: fromName}
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if toName == "" {
		toName = "there"
	}
	subject := fmt.Sprintf("Welcome to %s", s.fromName)
	htmlBody := buildWelcomeHTML(toName, s.fromName)
	textBody := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can sign in any time with the same Google or Apple account.\n\n%s Team", toName, s.fromName)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildWelcomeHTML(name, product string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome!</h2>
  <p>Hi %s,</p>
  <p>Your %s account has been created. Sign in any time with the same Google or Apple account.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(product), html.EscapeString(product))
}
