package database

import (
	"context"
	"log"

	appconfig "translation_desk/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewAWSConfig builds the shared SDK config.
//
// Static credentials are only used when both keys are set; otherwise the default
// chain (env, shared profile, task role) applies. DynamoDB Local and MinIO accept
// any static pair.
func NewAWSConfig(ctx context.Context, cfg appconfig.AWSConfig) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ConnectDynamoDB creates a DynamoDB client. A non-empty endpoint targets DynamoDB Local.
func ConnectDynamoDB(awsCfg aws.Config, cfg appconfig.DynamoDBConfig) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			log.Printf("[storage][dynamodb] using endpoint=%s table=%s", cfg.Endpoint, cfg.QuotesTable)
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
}
