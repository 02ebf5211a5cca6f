package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yanun0323/logs"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Broker feed bridge",
	Long: `Bridge logs in to the broker, keeps the instrument directories and the
order cache current and serves market data and order streams over gRPC.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bridge version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logs.Errorf("bridge, err: %+v", err)
		os.Exit(1)
	}
}
