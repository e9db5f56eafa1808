package ui

import "github.com/Mohsinsiddi/minedash/internal/wallet"

// Screen is the top-level view the dashboard renders.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenWelcome
	ScreenWrongNetwork
	ScreenActivation
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenWelcome:
		return "welcome"
	case ScreenWrongNetwork:
		return "wrong-network"
	case ScreenActivation:
		return "activation"
	case ScreenDashboard:
		return "dashboard"
	default:
		return "loading"
	}
}

// ViewInput is everything Compose looks at.
type ViewInput struct {
	Hydrated    bool // the terminal reported its size
	Status      wallet.Status
	ChainID     int64 // chain the session is attached to, 0 if unknown
	WantChainID int64
	Activated   bool
}

// Compose picks the screen. Checks run in a fixed order: hydration, then
// connection status, then chain id, then activation.
func Compose(in ViewInput) Screen {
	if !in.Hydrated {
		return ScreenLoading
	}
	switch in.Status {
	case wallet.StatusConnecting, wallet.StatusReconnecting:
		return ScreenLoading
	case wallet.StatusConnected:
	default:
		return ScreenWelcome
	}
	if in.ChainID != 0 && in.ChainID != in.WantChainID {
		return ScreenWrongNetwork
	}
	if !in.Activated {
		return ScreenActivation
	}
	return ScreenDashboard
}
