package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a step manifest from the given file path.
//
// The file format is determined by extension: .yaml/.yml for YAML, .json for
// JSON. If the extension is unrecognized, YAML is attempted first, then JSON.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return LoadFromBytes(data, path)
}

// LoadFromBytes parses and validates a manifest from raw bytes.
//
// The path parameter is used for format detection and error messages; it may
// be empty, in which case YAML is attempted first.
func LoadFromBytes(data []byte, path string) (*Manifest, error) {
	var m Manifest

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid YAML manifest: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid JSON manifest: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &m); err != nil {
			if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
				return nil, fmt.Errorf("manifest is neither valid YAML nor JSON: %w", err)
			}
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.applyDefaults()

	return &m, nil
}

// LoadDeployment reads a deployment manifest: the step-to-operator bindings
// used for docker build listing.
func LoadDeployment(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}

	var d Deployment
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid deployment manifest: %w", err)
	}
	if len(d.Steps) == 0 {
		return nil, ValidationError{Path: "steps", Message: "deployment has no steps"}
	}
	return &d, nil
}

// Deployment is the manifest form of a pipeline deployment's step bindings.
type Deployment struct {
	// Steps maps step names to their deployment configuration.
	Steps map[string]DeploymentStep `json:"steps" yaml:"steps"`
}

// DeploymentStep is one step's deployment configuration.
type DeploymentStep struct {
	// StepOperator names the operator the step runs on. Optional; steps
	// without an operator run in-process and need no image build.
	StepOperator string `json:"step_operator,omitempty" yaml:"step_operator,omitempty"`
}
