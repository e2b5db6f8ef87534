package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailsig/message"
	"github.com/zostay/go-mailsig/sig"
)

var signedCmd = &cobra.Command{
	Use:   "signed message",
	Short: "Shows the diff of a message round-trip through repeated signing",
	Long: `Signs the message, serializes it, then signs the serialized form a second
time. The markers left by the first pass should make the second pass a
no-op, so any diff between the two renditions is a bug.`,
	Args: cobra.ExactArgs(1),
	Run:  RunSigned,
}

var (
	plainFooter string
	htmlFooter  string
)

func init() {
	signedCmd.Flags().StringVar(
		&plainFooter, "footer", "sent through the roundtrip harness",
		"plain text footer to insert")
	signedCmd.Flags().StringVar(
		&htmlFooter, "html-footer", "",
		"HTML footer to insert")
	rootCmd.AddCommand(signedCmd)
}

func signFile(s *sig.Signer, in []byte) []byte {
	m, err := message.Parse(bytes.NewReader(in), message.WithUnlimitedRecursion())
	if err != nil {
		panic(err)
	}

	signed, err := s.Sign(m)
	if err != nil {
		panic(err)
	}

	out := &bytes.Buffer{}
	_, err = signed.WriteTo(out)
	if err != nil {
		panic(err)
	}

	return out.Bytes()
}

func RunSigned(cmd *cobra.Command, args []string) {
	path := args[0]
	orig, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	s := sig.New()
	if plainFooter != "" || htmlFooter != "" {
		err = s.SetFooter(plainFooter, htmlFooter)
		if err != nil {
			panic(err)
		}
	}

	once := signFile(s, orig)
	twice := signFile(s, once)

	if d := diffText(string(once), string(twice)); d != "" {
		fmt.Printf("path = %s\n", path)
		fmt.Println(d)
		os.Exit(1)
	}
}
