package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zostay/go-mailsig/internal/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mailsig",
		Short: "Insert signature footers and attachments into email messages",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logLevel)
		},
	}

	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		"", "path to the signing configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		"warning", "level of log detail to emit")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	err := rootCmd.Execute()
	cobra.CheckErr(err)
}
