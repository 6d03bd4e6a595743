package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return &sesv2.SendEmailOutput{}, f.err
}

func TestSendWelcomeEmail(t *testing.T) {
	client := &fakeSES{}
	sender := NewWithClient(client, "noreply@example.com", "Acme")

	err := sender.SendWelcomeEmail(context.Background(), "jane@example.com", "Jane <script>")

	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "Acme <noreply@example.com>", *client.input.FromEmailAddress)
	assert.Equal(t, []string{"jane@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Welcome to Acme", *client.input.Content.Simple.Subject.Data)
	assert.Contains(t, *client.input.Content.Simple.Body.Html.Data, "Jane &lt;script&gt;")
	assert.Contains(t, *client.input.Content.Simple.Body.Text.Data, "Hi Jane <script>")
}

func TestSendWelcomeEmail_Error(t *testing.T) {
	sender := NewWithClient(&fakeSES{err: errors.New("throttled")}, "noreply@example.com", "Acme")

	err := sender.SendWelcomeEmail(context.Background(), "jane@example.com", "")

	assert.ErrorContains(t, err, "SES SendEmail")
}
