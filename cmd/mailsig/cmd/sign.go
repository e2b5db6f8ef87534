package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailsig/internal/logging"
	"github.com/zostay/go-mailsig/message"
)

var (
	signCmd = &cobra.Command{
		Use:   "sign [message-file]",
		Short: "Insert the configured footer and attachments into a message",
		Long: `Reads an email message from the named file or from standard input,
inserts the footers and attachments named in the signing configuration, and
writes the rewritten message to standard output or the --output file. Parts
the configuration does not touch are passed through byte for byte.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunSign,
	}

	outputPath string
)

func init() {
	signCmd.Flags().StringVarP(&outputPath, "output", "o",
		"", "write the signed message here instead of standard output")
}

func RunSign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := buildSigner(cfg)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	name := "stdin"
	if len(args) == 1 {
		name = args[0]
		mf, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "unable to open the message")
		}
		defer func() { _ = mf.Close() }()
		in = mf
	}

	logging.WithFields(logging.Fields{"message": name}).Debug("parsing message")

	msg, err := message.Parse(in, message.WithUnlimitedRecursion())
	if err != nil {
		return errors.Wrapf(err, "unable to parse message %s", name)
	}

	signed, err := s.SignedBytes(msg)
	if err != nil {
		return errors.Wrapf(err, "unable to sign message %s", name)
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		of, err := os.Create(outputPath)
		if err != nil {
			return errors.Wrap(err, "unable to create the output file")
		}
		defer func() { _ = of.Close() }()
		out = of
	}

	if _, err := out.Write(signed); err != nil {
		return errors.Wrap(err, "unable to write the signed message")
	}

	logging.WithFields(logging.Fields{
		"message": name,
		"bytes":   len(signed),
	}).Debug("message signed")

	return nil
}
