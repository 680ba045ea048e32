package commands

import (
	"github.com/spf13/cobra"
)

var prCmd = &cobra.Command{
	Use:   "pr <number>",
	Short: "Review a pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parsePositive(args[0], "pull request number")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		rt, err := newRuntime(ctx, needs{oracle: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.engine().ReviewPR(ctx, number)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prCmd)
}
