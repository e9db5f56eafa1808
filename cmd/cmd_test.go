package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/rpc"
	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const friendAddr = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

// withConfig points the package globals at a fresh config dir.
func withConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Load(t.TempDir())
	require.NoError(t, err)
	prevCfg, prevWallet, prevDep := cfg, walletFlag, deploymentFlag
	cfg, walletFlag, deploymentFlag = c, "", ""
	t.Cleanup(func() { cfg, walletFlag, deploymentFlag = prevCfg, prevWallet, prevDep })
	return c
}

// ---------------------------------------------------------------------------
// candidateRPCs
// ---------------------------------------------------------------------------

func TestCandidateRPCs_FlagWins(t *testing.T) {
	got := candidateRPCs("http://flag", []string{"http://a"}, []string{"http://b"})
	assert.Equal(t, []string{"http://flag"}, got)
}

func TestCandidateRPCs_CustomFirstDeduped(t *testing.T) {
	got := candidateRPCs("", []string{"http://a", "http://b", ""}, []string{"http://b", "http://c"})
	assert.Equal(t, []string{"http://a", "http://b", "http://c"}, got)
}

func TestCandidateRPCs_Empty(t *testing.T) {
	assert.Empty(t, candidateRPCs("", nil, nil))
}

func TestCandidateRPCs_DoesNotAliasCustom(t *testing.T) {
	custom := make([]string, 1, 4)
	custom[0] = "http://a"
	candidateRPCs("", custom, []string{"http://b"})
	assert.Equal(t, []string{"http://a"}, custom[:1])
	assert.Equal(t, "", custom[:2][1], "builtin must not be appended into the caller's backing array")
}

// ---------------------------------------------------------------------------
// resolveAddress
// ---------------------------------------------------------------------------

func TestResolveAddress_HexArg(t *testing.T) {
	withConfig(t)
	addr, err := resolveAddress([]string{strings.ToLower(friendAddr)})
	require.NoError(t, err)
	assert.Equal(t, friendAddr, addr.Hex())
}

func TestResolveAddress_WalletName(t *testing.T) {
	c := withConfig(t)
	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(c.WalletsPath())))
	_, err := mgr.AddWatchOnly("friend", friendAddr)
	require.NoError(t, err)

	addr, err := resolveAddress([]string{"friend"})
	require.NoError(t, err)
	assert.Equal(t, friendAddr, addr.Hex())
}

func TestResolveAddress_DefaultsToSelectedWallet(t *testing.T) {
	c := withConfig(t)
	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(c.WalletsPath())))
	_, err := mgr.AddWatchOnly("friend", friendAddr)
	require.NoError(t, err)
	c.DefaultWallet = "friend"

	addr, err := resolveAddress(nil)
	require.NoError(t, err)
	assert.Equal(t, friendAddr, addr.Hex())
}

func TestResolveAddress_NoWallets(t *testing.T) {
	withConfig(t)
	_, err := resolveAddress(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wallet.ErrNoWallet))
}

func TestSelectedWallet_FlagOverridesConfig(t *testing.T) {
	c := withConfig(t)
	c.DefaultWallet = "alice"
	assert.Equal(t, "alice", selectedWallet())
	walletFlag = "bob"
	assert.Equal(t, "bob", selectedWallet())
}

// ---------------------------------------------------------------------------
// env
// ---------------------------------------------------------------------------

func testEnv(t *testing.T) *env {
	t.Helper()
	c, err := chain.NewRegistry().GetByName("bnb")
	require.NoError(t, err)
	return &env{dep: config.BuiltinDeployment(), chain: c, client: chain.NewEVMClient("http://127.0.0.1:0")}
}

func TestEnvCurrencyIsTestnet(t *testing.T) {
	assert.Equal(t, "tBNB", testEnv(t).currency())
}

func TestEnvTokenAbsent(t *testing.T) {
	e := testEnv(t)
	e.dep.Token = ""
	tok, err := e.token()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestEnvTokenInvalid(t *testing.T) {
	e := testEnv(t)
	e.dep.Token = "0xnope"
	_, err := e.token()
	assert.Error(t, err)
}

func TestEnvReaderRejectsBadContract(t *testing.T) {
	e := testEnv(t)
	e.dep.Contract = "nope"
	_, err := e.reader()
	assert.Error(t, err)
}

func TestEnvWriterRejectsBadFee(t *testing.T) {
	e := testEnv(t)
	e.dep.ActivationFee = "abc"
	_, err := e.writer(nil)
	assert.ErrorContains(t, err, "activation fee")
}

// ---------------------------------------------------------------------------
// errLine
// ---------------------------------------------------------------------------

func TestErrLine_Plain(t *testing.T) {
	prev := cfg
	cfg = nil
	t.Cleanup(func() { cfg = prev })
	assert.Contains(t, errLine(errors.New("boom")), "boom")
}

func TestErrLine_ReferrerNotActivatedLocalised(t *testing.T) {
	c := withConfig(t)
	c.Language = "en"
	err := &contract.RevertError{Reason: contract.ReasonReferrerNotActivated}
	line := errLine(fmt.Errorf("sending: %w", err))
	assert.Contains(t, line, catalog().NotActivated)
	assert.NotContains(t, line, "sending")
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func pairKeys(pairs [][2]string) []string {
	var out []string
	for _, p := range pairs {
		out = append(out, p[0])
	}
	return out
}

func TestStatusPairs_ActivatedWithReferrer(t *testing.T) {
	st := &miningStatus{
		Address:           friendAddr,
		Activated:         true,
		Referrer:          "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		MiningPower:       "12",
		DirectReferrals:   "2",
		IndirectReferrals: "5",
		EstimatedL1:       "0.008",
		Pending:           "1.50",
		TokenSymbol:       "MMT",
		TokenBalance:      "3.25",
		hasIndirect:       true,
	}
	pairs := st.pairs(testEnv(t))
	assert.Equal(t, []string{
		"Address", "Status", "Referrer", "Mining power", "Direct referrals",
		"Indirect referrals", "Estimated L1", "Pending MMT", "MMT balance",
	}, pairKeys(pairs))
	assert.Contains(t, pairs[6][1], "0.008 tBNB")
	assert.Contains(t, pairs[3][1], "12 P")
}

func TestStatusPairs_MinimalLayout(t *testing.T) {
	st := &miningStatus{Address: friendAddr, MiningPower: "0", DirectReferrals: "0", EstimatedL1: "0.000", Pending: "0.00"}
	pairs := st.pairs(testEnv(t))
	keys := pairKeys(pairs)
	assert.NotContains(t, keys, "Referrer")
	assert.NotContains(t, keys, "Indirect referrals")
	assert.Contains(t, pairs[1][1], "not activated")
}

// ---------------------------------------------------------------------------
// deployments / rpc / wallet helpers
// ---------------------------------------------------------------------------

func TestDeploymentPairs(t *testing.T) {
	d := config.BuiltinDeployment()
	d.Token = ""
	pairs := deploymentPairs(d)
	assert.Equal(t, [2]string{"Chain ID", "97"}, pairs[1])
	assert.Equal(t, [2]string{"Reward token", "-"}, pairs[3])
	assert.Equal(t, "5s", pairs[len(pairs)-1][1])
}

func TestBenchTableMarksPicked(t *testing.T) {
	results := []rpc.Endpoint{
		{URL: "http://good", Latency: 40 * time.Millisecond, BlockNumber: 100},
		{URL: "http://bad", Err: errors.New("connection refused by peer")},
	}
	out := benchTable(results, "http://good").Render()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "40ms")
	assert.Contains(t, lines[2], "*")
	assert.Contains(t, lines[3], "connection refu")
	assert.NotContains(t, lines[3], "*")
}

func TestTrimReason(t *testing.T) {
	assert.Equal(t, "short", trimReason("short"))
	assert.Equal(t, "abcdefghijklmno…", trimReason("abcdefghijklmnopqrstuvwxyz"))
}

func TestWalletPickerItems_SigningFirst(t *testing.T) {
	ws := []*wallet.Wallet{
		{Name: "a-watch", Address: friendAddr, Type: wallet.TypeWatchOnly},
		{Name: "b-sign", Address: friendAddr, Type: wallet.TypeSigning},
	}
	items := walletPickerItems(ws, "b-sign")
	require.Len(t, items, 2)
	assert.Equal(t, "b-sign", items[0].Value)
	assert.True(t, items[0].Current)
	assert.Contains(t, items[1].SubLabel, "watch-only")
}

func TestStatusPairs_FiatAfterEstimate(t *testing.T) {
	st := &miningStatus{Address: friendAddr, Activated: true, EstimatedL1: "0.008", EstimatedL1Fiat: "$4.80", Pending: "0.00"}
	keys := pairKeys(st.pairs(testEnv(t)))
	i := slices.Index(keys, "Estimated L1")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Estimated L1 (USD)", keys[i+1])
}
