package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifestYAML = `version: "1.0"
pipeline: training-pipeline
step:
  name: trainer
  image: registry.example.com/steps:latest
  command: ["python", "-m", "trainer"]
  environment:
    LOG_LEVEL: INFO
  resources:
    cpu_count: 2.5
    gpu_count: 1
    memory: 512MiB
  instance_type: m5.xlarge
  node_count: 2
  timeout_seconds: 300
operator:
  name: my-batch
  job_queue: ml-queue
  execution_role: arn:aws:iam::123456789012:role/ecsExecution
  job_role: arn:aws:iam::123456789012:role/ecsJob
  poll_interval_seconds: 5
  region: eu-central-1
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	m, err := Load(writeManifest(t, "step.yaml", validManifestYAML))
	require.NoError(t, err)

	assert.Equal(t, "training-pipeline", m.Pipeline)
	assert.Equal(t, "trainer", m.Step.Name)
	assert.Equal(t, []string{"python", "-m", "trainer"}, m.Step.Command)
	assert.Equal(t, 2, m.Step.NodeCount)

	require.NotNil(t, m.Step.Resources.CPUCount)
	assert.Equal(t, 2.5, *m.Step.Resources.CPUCount)
	require.NotNil(t, m.Step.Resources.GPUCount)
	assert.Equal(t, 1, *m.Step.Resources.GPUCount)
	assert.Equal(t, "512MiB", m.Step.Resources.Memory)
}

func TestLoad_ValidJSON(t *testing.T) {
	content := `{
  "version": "1.0",
  "pipeline": "p",
  "step": {"name": "s", "image": "img:latest", "command": ["run"]},
  "operator": {"job_queue": "q"}
}`
	m, err := Load(writeManifest(t, "step.json", content))
	require.NoError(t, err)
	assert.Equal(t, "p", m.Pipeline)

	// Operator name default applied.
	assert.Equal(t, "aws-batch", m.Operator.Name)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadFromBytes_ValidationErrors(t *testing.T) {
	content := `version: "2.0"
pipeline: ""
step:
  image: ""
operator:
  job_queue: ""
`
	_, err := LoadFromBytes([]byte(content), "step.yaml")
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)

	paths := make([]string, 0, len(errs))
	for _, e := range errs {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "version")
	assert.Contains(t, paths, "pipeline")
	assert.Contains(t, paths, "step.name")
	assert.Contains(t, paths, "step.image")
	assert.Contains(t, paths, "step.command")
	assert.Contains(t, paths, "operator.job_queue")
}

func TestLoadFromBytes_InvalidMemory(t *testing.T) {
	content := `version: "1.0"
pipeline: p
step:
  name: s
  image: img:latest
  command: ["run"]
  resources:
    memory: lots
operator:
  job_queue: q
`
	_, err := LoadFromBytes([]byte(content), "step.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step.resources.memory")
}

func TestManifest_Info(t *testing.T) {
	m, err := LoadFromBytes([]byte(validManifestYAML), "step.yaml")
	require.NoError(t, err)

	info, err := m.Info()
	require.NoError(t, err)

	assert.Equal(t, "training-pipeline", info.PipelineName)
	assert.Equal(t, "trainer", info.StepName)
	assert.Equal(t, "registry.example.com/steps:latest", info.Image)
	assert.Equal(t, 2, info.Settings.NodeCount)
	assert.Equal(t, 300, info.Settings.TimeoutSeconds)
	assert.Equal(t, map[string]string{"LOG_LEVEL": "INFO"}, info.Settings.Environment)

	require.NotNil(t, info.Resources.MemoryMiB)
	assert.Equal(t, 512.0, *info.Resources.MemoryMiB)
}

func TestManifest_OperatorConfig(t *testing.T) {
	m, err := LoadFromBytes([]byte(validManifestYAML), "step.yaml")
	require.NoError(t, err)

	cfg := m.OperatorConfig()
	assert.Equal(t, "my-batch", cfg.Name)
	assert.Equal(t, "ml-queue", cfg.JobQueue)
	assert.Equal(t, "arn:aws:iam::123456789012:role/ecsExecution", cfg.ExecutionRole)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "eu-central-1", cfg.Client.Region)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDeployment(t *testing.T) {
	content := `steps:
  trainer:
    step_operator: aws-batch
  loader: {}
`
	d, err := LoadDeployment(writeManifest(t, "deployment.yaml", content))
	require.NoError(t, err)

	assert.Len(t, d.Steps, 2)
	assert.Equal(t, "aws-batch", d.Steps["trainer"].StepOperator)
	assert.Empty(t, d.Steps["loader"].StepOperator)
}

func TestLoadDeployment_Empty(t *testing.T) {
	_, err := LoadDeployment(writeManifest(t, "deployment.yaml", "steps: {}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no steps")
}
