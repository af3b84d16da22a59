package cli

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skorlabs/skorstaking/internal/observability/tracing"
	"github.com/skorlabs/skorstaking/internal/types"
)

// DumpStakesCmd prints every stake of a staker in its account layout, one
// "<index> <account> <base64>" line per stake.
func DumpStakesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-stakes [staker]",
		Short: "Print the account layouts of a staker's stakes",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpStakes,
	}

	return cmd
}

func dumpStakes(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	staker, err := types.ParsePubkey(args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	var from uint64
	for {
		page, err := rt.service.ListStakes(ctx, staker, from, 0)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, doc := range page {
			record, err := doc.ToStakeRecord()
			if err != nil {
				return err
			}
			data, err := record.MarshalBinary()
			if err != nil {
				return err
			}
			account, err := rt.service.Addresses().Stake(staker, doc.Index)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d %s %s\n", doc.Index, account, base64.StdEncoding.EncodeToString(data))
		}
		from = page[len(page)-1].Index + 1
	}
}
