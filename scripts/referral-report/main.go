// referral-report: reads mining status for a set of addresses on every known
// deployment in parallel and prints a summary table.
//
// Run from the module root:
//
//	go run ./scripts/referral-report 0xabc... 0xdef...
//
// Deployments come from $MINEDASH_CONFIG_DIR (default ~/.minedash).
package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/Mohsinsiddi/minedash/internal/mining"
	"github.com/ethereum/go-ethereum/common"
)

const rpcTimeout = 12 * time.Second

type result struct {
	deployment string
	wallet     string // short form
	status     string
	power      string
	direct     string
	pending    string
	err        string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: referral-report <address>...")
		os.Exit(2)
	}
	var addrs []common.Address
	for _, a := range os.Args[1:] {
		if !mining.IsAddress(a) {
			fmt.Fprintf(os.Stderr, "not an address: %s\n", a)
			os.Exit(2)
		}
		addrs = append(addrs, common.HexToAddress(a))
	}

	cfg, err := config.Load(os.Getenv("MINEDASH_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	deps, err := cfg.Deployments()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reg := chain.NewRegistry()
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)
	for _, d := range deps {
		c, err := reg.GetByName(d.Network)
		if err != nil {
			continue
		}
		rpcs := endpoints(cfg.GetRPCs(c.Name), c.RPCs(d.Mode))
		if len(rpcs) == 0 {
			continue
		}
		client := chain.NewEVMClient(rpcs[0])

		for _, addr := range addrs {
			wg.Add(1)
			go func(d config.Deployment, addr common.Address) {
				defer wg.Done()
				r := read(client, d, addr)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(d, addr)
		}
	}
	wg.Wait()

	printTable(results)
}

func read(client *chain.EVMClient, d config.Deployment, addr common.Address) result {
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	r := result{deployment: d.Name, wallet: shortAddr(addr.Hex()), status: "-", power: "-", direct: "-", pending: "-"}
	reader, err := contract.NewReader(client, common.HexToAddress(d.Contract), d.Layout)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	u, err := reader.UserRecord(ctx, addr)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.status = "inactive"
	r.power = mining.FormatCount(u.MiningPower)
	r.direct = mining.FormatCount(u.DirectReferrals)
	if !u.IsActivated {
		return r
	}
	r.status = "active"
	p, err := reader.PendingReward(ctx, addr)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.pending = mining.FormatReward(p)
	return r
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.deployment != b.deployment {
			return a.deployment < b.deployment
		}
		return a.wallet < b.wallet
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPLOYMENT\tWALLET\tSTATUS\tPOWER\tDIRECT\tPENDING MMT\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 6)+"\t"+
		strings.Repeat("-", 6)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 12))

	last := ""
	for _, r := range results {
		if r.deployment != last {
			if last != "" {
				fmt.Fprintln(w, "\t\t\t\t\t\t")
			}
			last = r.deployment
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.deployment, r.wallet, r.status, r.power, r.direct, r.pending, r.err)
	}
	w.Flush()
}

// endpoints lists custom RPCs before the registry's without writing into
// the config's slice.
func endpoints(custom, builtin []string) []string {
	return append(slices.Clone(custom), builtin...)
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	if r := []rune(err.Error()); len(r) > 30 {
		return string(r[:30]) + "…"
	}
	return err.Error()
}
