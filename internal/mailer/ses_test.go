package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipnotify/internal/types"
)

type mockSESAPI struct {
	input *sesv2.SendEmailInput
	out   *sesv2.SendEmailOutput
	err   error
}

func (m *mockSESAPI) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return m.out, nil
}

func TestSESSend(t *testing.T) {
	api := &mockSESAPI{out: &sesv2.SendEmailOutput{MessageId: aws.String("msg-123")}}
	m := NewSESMailerWithAPI(api, SESMailerConfig{ConfigSetName: "shipnotify", Logger: &testLogger{}})

	id, err := m.Send(context.Background(), testMessage("orders@acme.example"))
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)

	require.NotNil(t, api.input)
	assert.Equal(t, "Shipping <shipping@example.com>", *api.input.FromEmailAddress)
	assert.Equal(t, []string{"orders@acme.example"}, api.input.Destination.ToAddresses)
	assert.Equal(t, []string{"records@example.com"}, api.input.Destination.CcAddresses)
	assert.Equal(t, "shipnotify", *api.input.ConfigurationSetName)
	require.Len(t, api.input.EmailTags, 1)
	assert.Equal(t, "ReferenceID", *api.input.EmailTags[0].Name)
	assert.Equal(t, "100", *api.input.EmailTags[0].Value)
}

func TestSESSendBareAddressWithoutName(t *testing.T) {
	api := &mockSESAPI{out: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	m := NewSESMailerWithAPI(api, SESMailerConfig{Logger: &testLogger{}})

	msg := testMessage("orders@acme.example")
	msg.From.Name = ""
	msg.CC = ""
	_, err := m.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "shipping@example.com", *api.input.FromEmailAddress)
	assert.Empty(t, api.input.Destination.CcAddresses)
	assert.Nil(t, api.input.ConfigurationSetName)
}

func TestSESSendErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode types.ErrorCode
	}{
		{"message rejected", &sestypes.MessageRejected{}, types.ErrCodeEmailBlocked},
		{"throttled", &sestypes.TooManyRequestsException{}, types.ErrCodeUpstreamRateLimited},
		{"sending paused", &sestypes.SendingPausedException{}, types.ErrCodeDeliveryFailed},
		{"unknown failure", errors.New("boom"), types.ErrCodeDeliveryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockSESAPI{err: tt.err}
			m := NewSESMailerWithAPI(api, SESMailerConfig{Logger: &testLogger{}})

			_, err := m.Send(context.Background(), testMessage("orders@acme.example"))
			require.Error(t, err)
			assert.True(t, types.IsCode(err, tt.wantCode))
		})
	}
}

func TestSESKind(t *testing.T) {
	m := NewSESMailerWithAPI(&mockSESAPI{}, SESMailerConfig{Logger: &testLogger{}})
	assert.Equal(t, types.MailerSES, m.Kind())
	assert.True(t, m.Kind().Delivered())
}
