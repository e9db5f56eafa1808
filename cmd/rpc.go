package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/minedash/internal/chain"
	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/rpc"
	"github.com/Mohsinsiddi/minedash/internal/ui"
	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Inspect RPC endpoints for the active deployment",
}

var rpcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidate RPCs in selection order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dep, c, urls, err := deploymentRPCs()
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("RPCs for %s (%s)", dep.Name, c.Label(dep.Mode))))
		custom := cfg.GetRPCs(c.Name)
		for _, u := range urls {
			tag := ui.Meta("(built-in)")
			for _, cu := range custom {
				if cu == u {
					tag = ui.Meta("(custom)")
				}
			}
			fmt.Printf("  %s %s\n", tag, u)
		}
		return nil
	},
}

var rpcBenchCmd = &cobra.Command{
	Use:     "bench",
	Aliases: []string{"benchmark"},
	Short:   "Probe every candidate RPC and show which one would be picked",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dep, c, urls, err := deploymentRPCs()
		if err != nil {
			return err
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(fmt.Sprintf("Benchmarking %d %s endpoint(s)...", len(urls), c.Label(dep.Mode)))
		spin.Start()
		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		results := rpc.Benchmark(ctx, urls, dep.ChainID)
		cancel()
		spin.Stop()

		picked, pickErr := rpc.NewPicker(algo).Pick(results)
		fmt.Println(benchTable(results, picked.URL).Render())
		if pickErr != nil {
			return pickErr
		}
		fmt.Println(ui.Meta(fmt.Sprintf("%s would use %s", algo, picked.URL)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcListCmd, rpcBenchCmd)
}

func deploymentRPCs() (config.Deployment, *chain.Chain, []string, error) {
	dep, err := cfg.ResolveDeployment(deploymentFlag)
	if err != nil {
		return dep, nil, nil, err
	}
	c, err := chain.NewRegistry().GetByName(dep.Network)
	if err != nil {
		return dep, nil, nil, err
	}
	urls := candidateRPCs(rpcFlag, cfg.GetRPCs(c.Name), c.RPCs(dep.Mode))
	if len(urls) == 0 {
		return dep, c, nil, fmt.Errorf("no RPCs for %s (%s)", c.Name, dep.Mode)
	}
	return dep, c, urls, nil
}

func benchTable(results []rpc.Endpoint, picked string) *ui.Table {
	t := ui.NewTable([]ui.Column{
		{Title: "RPC URL", Width: 44},
		{Title: "Latency", Width: 10},
		{Title: "Block #", Width: 12},
		{Title: "Status", Width: 18},
	})
	for _, r := range results {
		latency, block := "-", "-"
		status := ui.StyleSuccess.Render("healthy")
		if r.Healthy() {
			latency = fmt.Sprintf("%dms", r.Latency.Milliseconds())
			block = strconv.FormatUint(r.BlockNumber, 10)
		} else {
			status = ui.StyleError.Render(trimReason(r.Err.Error()))
		}
		if r.URL == picked {
			status += " " + ui.StyleWarning.Render("*")
		}
		t.AddRow(ui.Row{r.URL, latency, block, status})
	}
	return t
}

func trimReason(s string) string {
	const max = 16
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
