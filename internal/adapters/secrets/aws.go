package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/poyrazK/domaincheck/internal/core/domain"
)

// AWSConfig configures AWS Secrets Manager access.
type AWSConfig struct {
	Region   string
	RoleARN  string // Optional role to assume before reading the secret
	Endpoint string // Optional endpoint override, e.g. LocalStack
}

// secretsManagerAPI is the subset of the Secrets Manager client used here.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretStore reads secrets from AWS Secrets Manager.
type AWSSecretStore struct {
	client secretsManagerAPI
}

// NewAWSSecretStore loads the default AWS config chain for cfg.Region.
// Requests are never retried by the SDK.
func NewAWSSecretStore(ctx context.Context, cfg AWSConfig) (*AWSSecretStore, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("aws region required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	if cfg.RoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg)
		creds := stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN)
		awsCfg.Credentials = aws.NewCredentialsCache(creds)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &AWSSecretStore{client: client}, nil
}

// GetSecretString returns the SecretString of secretID, falling back to the
// binary payload for secrets stored as SecretBinary.
func (s *AWSSecretStore) GetSecretString(ctx context.Context, secretID string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, secretID)
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("getting secret (%s): %w", apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("getting secret: %w", err)
	}

	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("secret %s has no value", secretID)
}
