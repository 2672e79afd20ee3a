// Command usersctl manages users through the users admin HTTP API.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"usersadmin/internal/client"
	"usersadmin/internal/utils"
)

var (
	serverURL    string
	token        string
	outputFormat string
	pageSize     int

	apiClient *client.HTTPClient
)

func defaultServer() string {
	if s := os.Getenv("USERSCTL_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:           "usersctl <command>",
	Short:         "CLI client for the users admin service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "table", "json", "yaml":
		default:
			return fmt.Errorf("unknown output %q (must be table, json or yaml)", outputFormat)
		}
		apiClient = client.NewHTTPClient(serverURL, token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("USERSCTL_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 15, "rows per page")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sessionCmd)
}

func main() {
	utils.InitLogger(os.Getenv("USERSCTL_LOG_LEVEL"), "console")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
