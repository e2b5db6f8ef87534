package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version of the mailsig tools.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the mailsig tools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mailsig v%s\n", Version)
	},
}
