package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// flagTraceExecution is the value of the --trace-execution flag.
var flagTraceExecution bool

var rootCmd = &cobra.Command{
	Use:           "lumen [script]",
	Short:         "lumen is the interpreter for the lumen scripting language",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,

	Run: func(cmd *cobra.Command, args []string) {
		switch len(args) {
		case 0:
			runREPL()
		case 1:
			runFile(args[0])
		default:
			fmt.Println("Usage: lumen [script]")
			os.Exit(64)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagTraceExecution, "trace-execution", "t", false,
		"dump the value stack and the next instruction before every VM step")
}
