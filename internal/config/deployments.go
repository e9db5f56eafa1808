package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrDeploymentNotFound is returned when no profile matches a name.
var ErrDeploymentNotFound = errors.New("deployment not found")

// BuiltinDeployment is the BSC testnet deployment of the mining contract.
func BuiltinDeployment() Deployment {
	return Deployment{
		Name:                DefaultDeploymentName,
		Network:             "bnb",
		Mode:                "testnet",
		ChainID:             97,
		Contract:            "0x9641515C95c6BCc8dBb1bfa0b05004B0b9b30da4",
		Token:               "0x896fC7D9bA75C4ed4552a7Bcd3FD0577726FDb2a",
		Layout:              DefaultLayout,
		ActivationFee:       DefaultActivationFee,
		L1RewardPerReferral: DefaultL1Reward,
		PollSeconds:         DefaultPollSeconds,
	}
}

// PollInterval returns the pending-reward refresh interval.
func (d Deployment) PollInterval() time.Duration {
	if d.PollSeconds <= 0 {
		return DefaultPollSeconds * time.Second
	}
	return time.Duration(d.PollSeconds) * time.Second
}

// withDefaults fills the optional fields of a profile read from disk.
func (d Deployment) withDefaults() Deployment {
	if d.Mode == "" {
		d.Mode = "mainnet"
	}
	if d.Layout == "" {
		d.Layout = DefaultLayout
	}
	if d.ActivationFee == "" {
		d.ActivationFee = DefaultActivationFee
	}
	if d.L1RewardPerReferral == "" {
		d.L1RewardPerReferral = DefaultL1Reward
	}
	if d.PollSeconds <= 0 {
		d.PollSeconds = DefaultPollSeconds
	}
	return d
}

// DeploymentsPath returns the path of deployments.yaml.
func (c *Config) DeploymentsPath() string {
	return filepath.Join(c.configDir, deploymentsFile)
}

// LoadDeployments reads deployments.yaml. A missing file yields an empty set.
func (c *Config) LoadDeployments() (*DeploymentsFile, error) {
	data, err := os.ReadFile(c.DeploymentsPath())
	if os.IsNotExist(err) {
		return &DeploymentsFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading deployments: %w", err)
	}
	var df DeploymentsFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing deployments: %w", err)
	}
	return &df, nil
}

// SaveDeployments writes deployments.yaml.
func (c *Config) SaveDeployments(df *DeploymentsFile) error {
	sort.Slice(df.Deployments, func(i, j int) bool {
		return df.Deployments[i].Name < df.Deployments[j].Name
	})
	data, err := yaml.Marshal(df)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.DeploymentsPath(), data, 0o600)
}

// Deployments returns the built-in profile followed by every profile from
// deployments.yaml. A file entry with the built-in name replaces it.
func (c *Config) Deployments() ([]Deployment, error) {
	df, err := c.LoadDeployments()
	if err != nil {
		return nil, err
	}
	out := []Deployment{BuiltinDeployment()}
	for _, d := range df.Deployments {
		d = d.withDefaults()
		if d.Name == DefaultDeploymentName {
			out[0] = d
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ResolveDeployment finds the named profile, or the configured one when
// name is empty.
func (c *Config) ResolveDeployment(name string) (Deployment, error) {
	if name == "" {
		name = c.Deployment
	}
	if name == "" {
		name = DefaultDeploymentName
	}
	all, err := c.Deployments()
	if err != nil {
		return Deployment{}, err
	}
	for _, d := range all {
		if d.Name == name {
			return d, nil
		}
	}
	return Deployment{}, fmt.Errorf("%w: %s", ErrDeploymentNotFound, name)
}

// Upsert adds or replaces a profile by name.
func (df *DeploymentsFile) Upsert(d Deployment) {
	for i := range df.Deployments {
		if df.Deployments[i].Name == d.Name {
			df.Deployments[i] = d
			return
		}
	}
	df.Deployments = append(df.Deployments, d)
}
