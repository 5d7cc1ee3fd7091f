package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCMD().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCMD() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "edumatectl",
		Short:         "Administer the EduMate chat history store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from config)")

	root.AddCommand(initDBCMD(&dbPath), historyCMD(&dbPath))
	return root
}
