package main

import (
	"os"

	"github.com/cottand/rtype/cmd"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "rtype [subcommand]",
	Short:         "rtype\n inspect how generic types resolve and whether they are assignable",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cmd.Register(rootCmd)
}
