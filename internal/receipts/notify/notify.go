// Package notify sends receipt confirmations to the submitter's phone.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"cooliehub/internal/platform/config"
	"cooliehub/internal/receipts/models"
	"cooliehub/pkg/platform/circuit"
)

// OrgName prefixes every confirmation message.
const OrgName = "CoolieHub"

// Notifier delivers a confirmation for an issued receipt.
type Notifier interface {
	ReceiptIssued(ctx context.Context, rec models.Record) error
}

// Publisher is the part of the SNS client used for direct SMS.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMS publishes confirmations as transactional text messages through SNS.
type SMS struct {
	client      Publisher
	senderID    string
	countryCode string
	logger      *slog.Logger
}

func NewSMS(client Publisher, senderID, countryCode string, logger *slog.Logger) *SMS {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if countryCode == "" {
		countryCode = "+91"
	}
	return &SMS{client: client, senderID: senderID, countryCode: countryCode, logger: logger}
}

// New builds the notifier selected by cfg: SNS when enabled, otherwise Noop.
func New(ctx context.Context, cfg config.SMSConfig, logger *slog.Logger) (Notifier, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	sms := NewSMS(sns.NewFromConfig(awsCfg), cfg.SenderID, cfg.CountryCode, logger)
	return NewGuarded(sms, circuit.New("sms", circuit.WithFailureThreshold(3)), logger), nil
}

// Message renders the confirmation text for rec.
func Message(rec models.Record) string {
	return fmt.Sprintf("%s: receipt %s for %s, amount Rs %d, dated %s",
		OrgName, rec.ReceiptNo, rec.Type, rec.Amount, rec.Date)
}

func (s *SMS) ReceiptIssued(ctx context.Context, rec models.Record) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType: aws.String("String"), StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(s.countryCode + rec.Mobile),
		Message:           aws.String(Message(rec)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("publish sms for %s: %w", rec.ReceiptNo, err)
	}
	s.logger.InfoContext(ctx, "receipt sms sent",
		"receipt_no", rec.ReceiptNo,
		"message_id", aws.ToString(out.MessageId),
	)
	return nil
}

// Noop discards confirmations.
type Noop struct{}

func (Noop) ReceiptIssued(context.Context, models.Record) error { return nil }
