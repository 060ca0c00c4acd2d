package notify

import (
	"context"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client   snsAPI
	topicARN string
}

func NewSNSPublisher(client snsAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

// NewSNSPublisherFromConfig loads the default AWS chain; endpoint points the client at LocalStack when set.
func NewSNSPublisherFromConfig(ctx context.Context, topicARN, endpoint string) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load aws config")
	}

	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewSNSPublisher(client, topicARN), nil
}

func (p *SNSPublisher) Publish(ctx context.Context, n payment.Notification) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(n.Payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.Topic),
			},
			"intent_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.IntentID),
			},
		},
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish sns message")
	}
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
