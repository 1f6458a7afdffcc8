package operator

import "sort"

// DockerImageKey identifies this operator's image namespace in build
// requests.
const DockerImageKey = "aws_batch_step_operator"

// entrypointEnvVariable names the env var the built image resolves its
// entrypoint from.
const entrypointEnvVariable = "__BATCHSTEP_ENTRYPOINT"

// Deployment is the narrow view of a pipeline deployment the operator needs
// for build listing: the configured steps by name.
type Deployment struct {
	// Steps maps step names to their configuration.
	Steps map[string]DeploymentStep
}

// DeploymentStep is one step's deployment configuration.
type DeploymentStep struct {
	// StepOperator names the operator the step runs on; empty when the
	// step runs in-process.
	StepOperator string
}

// BuildConfiguration describes one image build required before launching a
// deployment's steps.
type BuildConfiguration struct {
	// Key is the image namespace; fixed to DockerImageKey.
	Key string

	// StepName is the step the image is built for.
	StepName string

	// Entrypoint is the image entrypoint reference.
	Entrypoint string
}

// DockerBuilds lists the image builds required for the deployment: one per
// step that runs on this operator, in step-name order.
func (o *Operator) DockerBuilds(deployment Deployment) []BuildConfiguration {
	return DockerBuildsFor(o.config.Name, deployment)
}

// DockerBuildsFor lists the image builds required for the deployment's steps
// bound to the named operator. Exposed so build planning does not need a
// constructed operator (and with it, an AWS client).
func DockerBuildsFor(operatorName string, deployment Deployment) []BuildConfiguration {
	names := make([]string, 0, len(deployment.Steps))
	for name, step := range deployment.Steps {
		if step.StepOperator == operatorName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	builds := make([]BuildConfiguration, 0, len(names))
	for _, name := range names {
		builds = append(builds, BuildConfiguration{
			Key:        DockerImageKey,
			StepName:   name,
			Entrypoint: "$" + entrypointEnvVariable,
		})
	}
	return builds
}
