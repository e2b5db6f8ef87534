package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailsig/message"
)

var oneCmd = &cobra.Command{
	Use:   "one message",
	Short: "Shows the diff of a single message round-trip",
	Args:  cobra.ExactArgs(1),
	Run:   RunOne,
}

func init() {
	rootCmd.AddCommand(oneCmd)
}

// diffText renders the change set between two renditions of a message. It
// comes back empty when the two are identical.
func diffText(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	return dmp.DiffPrettyText(diffs)
}

func RunOne(cmd *cobra.Command, args []string) {
	path := args[0]
	orig, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	m, err := message.Parse(bytes.NewReader(orig), message.WithUnlimitedRecursion())
	if err != nil {
		panic(err)
	}

	rt := &bytes.Buffer{}
	_, err = m.WriteTo(rt)
	if err != nil {
		panic(err)
	}

	if d := diffText(string(orig), rt.String()); d != "" {
		fmt.Printf("path = %s\n", path)
		fmt.Println(d)
		os.Exit(1)
	}
}
