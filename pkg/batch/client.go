package batch

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsbatch "github.com/aws/aws-sdk-go-v2/service/batch"
	"github.com/aws/smithy-go"
)

// API is the surface of the AWS Batch service consumed by the launcher.
// *awsbatch.Client satisfies it; tests substitute a mock.
type API interface {
	RegisterJobDefinition(ctx context.Context, input *awsbatch.RegisterJobDefinitionInput, optFns ...func(*awsbatch.Options)) (*awsbatch.RegisterJobDefinitionOutput, error)
	SubmitJob(ctx context.Context, input *awsbatch.SubmitJobInput, optFns ...func(*awsbatch.Options)) (*awsbatch.SubmitJobOutput, error)
	DescribeJobs(ctx context.Context, input *awsbatch.DescribeJobsInput, optFns ...func(*awsbatch.Options)) (*awsbatch.DescribeJobsOutput, error)
}

var _ API = (*awsbatch.Client)(nil)

// ClientConfig configures the AWS Batch client connection.
type ClientConfig struct {
	// Region is the AWS region. Optional; the SDK resolves env/profile
	// configuration when unset.
	Region string

	// Profile is the AWS credential profile name. Optional.
	Profile string

	// AccessKeyID and SecretAccessKey are explicit static credentials.
	// Optional; must be provided together.
	AccessKeyID     string
	SecretAccessKey string

	// Endpoint is a custom service endpoint, used against local Batch
	// emulators in integration setups. Optional.
	Endpoint string
}

// Validate checks the client configuration.
func (c ClientConfig) Validate() error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return &ConfigError{
			Field:   "credentials",
			Message: "both access key ID and secret access key must be provided together",
		}
	}
	return nil
}

// NewClient creates an AWS Batch client.
//
// The client uses AWS SDK v2's default credential chain unless explicit
// credentials are provided in the config.
func NewClient(ctx context.Context, cfg ClientConfig) (*awsbatch.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error

	// Only apply explicit region if the caller set one; let the SDK resolve
	// from env/profile first.
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		staticCreds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for long-term credentials)
		)
		opts = append(opts, config.WithCredentialsProvider(staticCreds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	var clientOpts []func(*awsbatch.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *awsbatch.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return awsbatch.NewFromConfig(awsCfg, clientOpts...), nil
}

// apiErrorCode extracts the service error code from an API failure, for
// diagnostic log fields. Returns "" for non-API errors.
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
