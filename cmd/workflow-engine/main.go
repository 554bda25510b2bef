package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workflow-engine",
	Short: "Transactional workflow execution engine",
	Long:  `workflow-engine advances business Cases through Tasks via TaskRules evaluated against ProcessData.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
