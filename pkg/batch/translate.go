package batch

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	awsbatch "github.com/aws/aws-sdk-go-v2/service/batch"
	awstypes "github.com/aws/aws-sdk-go-v2/service/batch/types"
)

// RegisterInput translates the compiled definition into the SDK's
// registration request. The definition must have passed Validate.
func (d *JobDefinition) RegisterInput() *awsbatch.RegisterJobDefinitionInput {
	input := &awsbatch.RegisterJobDefinitionInput{
		JobDefinitionName:  aws.String(d.JobDefinitionName),
		Type:               awstypes.JobDefinitionType(d.Type),
		Parameters:         d.Parameters,
		SchedulingPriority: aws.Int32(int32(d.SchedulingPriority)),
		PropagateTags:      aws.Bool(d.PropagateTags),
		Tags:               d.Tags,
		RetryStrategy:      d.RetryStrategy.toSDK(),
		Timeout: &awstypes.JobTimeout{
			AttemptDurationSeconds: aws.Int32(int32(d.Timeout.AttemptDurationSeconds)),
		},
	}

	for _, capability := range d.PlatformCapabilities {
		input.PlatformCapabilities = append(input.PlatformCapabilities, awstypes.PlatformCapability(capability))
	}

	if d.ContainerProperties != nil {
		input.ContainerProperties = d.ContainerProperties.toSDK()
	}
	if d.NodeProperties != nil {
		input.NodeProperties = d.NodeProperties.toSDK()
	}

	return input
}

func (p *ContainerProperties) toSDK() *awstypes.ContainerProperties {
	sdk := &awstypes.ContainerProperties{
		Image:            aws.String(p.Image),
		Command:          p.Command,
		JobRoleArn:       aws.String(p.JobRoleArn),
		ExecutionRoleArn: aws.String(p.ExecutionRoleArn),
	}

	if p.InstanceType != "" {
		sdk.InstanceType = aws.String(p.InstanceType)
	}

	for _, pair := range p.Environment {
		sdk.Environment = append(sdk.Environment, awstypes.KeyValuePair{
			Name:  aws.String(pair.Name),
			Value: aws.String(pair.Value),
		})
	}

	for _, requirement := range p.ResourceRequirements {
		sdk.ResourceRequirements = append(sdk.ResourceRequirements, awstypes.ResourceRequirement{
			Type:  awstypes.ResourceType(requirement.Type),
			Value: aws.String(requirement.Value),
		})
	}

	for _, secret := range p.Secrets {
		sdk.Secrets = append(sdk.Secrets, awstypes.Secret{
			Name:      aws.String(secret.Name),
			ValueFrom: aws.String(secret.ValueFrom),
		})
	}

	return sdk
}

func (p *NodeProperties) toSDK() *awstypes.NodeProperties {
	sdk := &awstypes.NodeProperties{
		NumNodes: aws.Int32(int32(p.NumNodes)),
		MainNode: aws.Int32(int32(p.MainNode)),
	}

	for _, r := range p.NodeRangeProperties {
		sdk.NodeRangeProperties = append(sdk.NodeRangeProperties, awstypes.NodeRangeProperty{
			TargetNodes: aws.String(r.TargetNodes),
			Container:   r.Container.toSDK(),
		})
	}

	return sdk
}

func (s RetryStrategy) toSDK() *awstypes.RetryStrategy {
	sdk := &awstypes.RetryStrategy{
		Attempts: aws.Int32(int32(s.Attempts)),
	}

	for _, condition := range s.EvaluateOnExit {
		rule := awstypes.EvaluateOnExit{
			Action: awstypes.RetryAction(condition.Action),
		}
		if condition.OnExitCode != "" {
			rule.OnExitCode = aws.String(condition.OnExitCode)
		}
		if condition.OnReason != "" {
			rule.OnReason = aws.String(condition.OnReason)
		}
		sdk.EvaluateOnExit = append(sdk.EvaluateOnExit, rule)
	}

	return sdk
}
