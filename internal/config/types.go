package config

// Config holds all minedash configuration.
type Config struct {
	Deployment    string              `json:"deployment"`
	DefaultWallet string              `json:"default_wallet"`
	RPCAlgorithm  string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	CustomRPCs    map[string][]string `json:"custom_rpcs"`
	Language      string              `json:"language"` // "en" | "zh"
	LogLevel      string              `json:"log_level"`
	LogFile       string              `json:"log_file,omitempty"`
	MetricsAddr   string              `json:"metrics_addr,omitempty"`

	// internal: config dir path used for Save()
	configDir string
}

// Deployment describes one contract deployment the dashboard can talk to.
type Deployment struct {
	Name     string `yaml:"name"    json:"name"`
	Network  string `yaml:"network" json:"network"` // chain registry slug, e.g. "bnb"
	Mode     string `yaml:"mode"    json:"mode"`    // "mainnet" | "testnet"
	ChainID  int64  `yaml:"chain_id" json:"chain_id"`
	Contract string `yaml:"contract" json:"contract"`
	Token    string `yaml:"token,omitempty" json:"token,omitempty"`
	Layout   string `yaml:"layout"  json:"layout"` // users() struct layout version

	// Decimal strings in native units.
	ActivationFee       string `yaml:"activation_fee"         json:"activation_fee"`
	L1RewardPerReferral string `yaml:"l1_reward_per_referral" json:"l1_reward_per_referral"`

	PollSeconds int `yaml:"poll_seconds" json:"poll_seconds"`
}

// DeploymentsFile is the structure of deployments.yaml.
type DeploymentsFile struct {
	Source      string       `yaml:"source,omitempty"`
	LastSynced  string       `yaml:"last_synced,omitempty"`
	Deployments []Deployment `yaml:"deployments"`
}
