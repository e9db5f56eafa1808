package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/rpc"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const sessionFile = "session.json"

// env is everything a contract command needs: the deployment, its chain
// metadata and a client on a selected endpoint.
type env struct {
	dep    config.Deployment
	chain  *chain.Chain
	client *chain.EVMClient
}

// openEnv resolves the deployment and selects an RPC endpoint for it.
func openEnv(ctx context.Context) (*env, error) {
	dep, err := cfg.ResolveDeployment(deploymentFlag)
	if err != nil {
		return nil, err
	}
	c, err := chain.NewRegistry().GetByName(dep.Network)
	if err != nil {
		return nil, fmt.Errorf("deployment %s: unknown network %q", dep.Name, dep.Network)
	}

	urls := candidateRPCs(rpcFlag, cfg.GetRPCs(c.Name), c.RPCs(dep.Mode))
	if len(urls) == 0 {
		return nil, fmt.Errorf("no RPCs for %s (%s), add one with `minedash config set-rpc %s <url>`", c.Name, dep.Mode, c.Name)
	}

	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.NewSelector(algo, log).Select(ctx, urls, dep.ChainID)
	if err != nil {
		return nil, fmt.Errorf("selecting RPC for %s: %w", dep.Name, err)
	}
	log.Debug("using endpoint", zap.String("deployment", dep.Name), zap.String("url", url))
	return &env{dep: dep, chain: c, client: chain.NewEVMClient(url)}, nil
}

// candidateRPCs orders endpoints: an explicit flag wins outright, then the
// user's custom URLs, then the registry's.
func candidateRPCs(flag string, custom, builtin []string) []string {
	if flag != "" {
		return []string{flag}
	}
	seen := make(map[string]bool)
	var out []string
	for _, u := range append(append([]string(nil), custom...), builtin...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func (e *env) currency() string { return e.chain.Currency(e.dep.Mode) }

func (e *env) txURL(hash common.Hash) string { return e.chain.TxURL(e.dep.Mode, hash.Hex()) }

func (e *env) reader() (*contract.Reader, error) {
	if !common.IsHexAddress(e.dep.Contract) {
		return nil, fmt.Errorf("deployment %s has no valid contract address", e.dep.Name)
	}
	return contract.NewReader(e.client, common.HexToAddress(e.dep.Contract), e.dep.Layout)
}

// token returns nil when the deployment has no reward token configured.
func (e *env) token() (*contract.Token, error) {
	if e.dep.Token == "" {
		return nil, nil
	}
	if !common.IsHexAddress(e.dep.Token) {
		return nil, fmt.Errorf("deployment %s: invalid token address %q", e.dep.Name, e.dep.Token)
	}
	return contract.NewToken(e.client, common.HexToAddress(e.dep.Token))
}

func (e *env) writer(signer contract.TxSigner) (*contract.Writer, error) {
	fee, err := chain.ParseEther(e.dep.ActivationFee)
	if err != nil {
		return nil, fmt.Errorf("deployment %s: activation fee: %w", e.dep.Name, err)
	}
	return contract.NewWriter(e.client, signer, e.dep.ChainID, common.HexToAddress(e.dep.Contract), fee,
		contract.WithWriterLogger(log))
}

// newWalletManager creates a Manager backed by the config-dir JSON store and
// the OS keychain.
func newWalletManager() (*wallet.Manager, error) {
	ks, err := wallet.OpenKeystore(cfg.Dir())
	if err != nil {
		return nil, err
	}
	store := wallet.NewJSONStore(cfg.WalletsPath())
	return wallet.NewManager(wallet.WithStore(store), wallet.WithKeystore(ks)), nil
}

func selectedWallet() string {
	if walletFlag != "" {
		return walletFlag
	}
	return cfg.DefaultWallet
}

// loadSigner unlocks the selected signing wallet.
func loadSigner() (*wallet.Signer, error) {
	mgr, err := newWalletManager()
	if err != nil {
		return nil, err
	}
	w, err := mgr.Resolve(selectedWallet())
	if err != nil {
		if errors.Is(err, wallet.ErrNoWallet) {
			return nil, fmt.Errorf("%w, add one with `minedash wallet add <name> --key <hex>` or pick one with `minedash wallet use`", err)
		}
		return nil, err
	}
	if !w.CanSign() {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign transactions", w.Name)
	}
	return wallet.NewSigner(w, mgr.Keystore())
}

// resolveAddress turns an optional argument (address or wallet name) into
// an address, falling back to the selected wallet.
func resolveAddress(args []string) (common.Address, error) {
	if len(args) > 0 && common.IsHexAddress(args[0]) {
		return common.HexToAddress(args[0]), nil
	}
	name := selectedWallet()
	if len(args) > 0 {
		name = args[0]
	}
	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
	w, err := mgr.Resolve(name)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w, pass an address or add a wallet first", err)
	}
	return common.HexToAddress(w.Address), nil
}

func catalog() ui.Catalog { return ui.CatalogFor(cfg.Language) }

// errLine renders a command error for the terminal.
func errLine(err error) string {
	msg := err.Error()
	if cfg != nil {
		msg = contract.Humanize(err, catalog().NotActivated)
	}
	return ui.Err(strings.TrimSpace(msg))
}
