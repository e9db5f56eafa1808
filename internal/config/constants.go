package config

import "time"

// Gas limits used when the node cannot estimate the transaction.
const (
	GasLimitActivate = uint64(250_000) // activateMining pays out two referral levels
	GasLimitClaim    = uint64(150_000)
)

// Timeouts shared by cmd and the dashboard.
const (
	RPCSelectTimeout = 10 * time.Second
	ReadTimeout      = 15 * time.Second
	SubmitTimeout    = 30 * time.Second
	ReceiptPoll      = 2 * time.Second
)

// Defaults for the built-in deployment.
const (
	DefaultDeploymentName = "bsc-testnet"
	DefaultActivationFee  = "0.01"
	DefaultL1Reward       = "0.004"
	DefaultPollSeconds    = 5
	DefaultLayout         = "v2"
)
