package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edvin/subnets/internal/client"
)

const defaultServer = "http://localhost:3001"

type cliOptions struct {
	server     string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "subnetctl",
		Short: "Manage projects and their allocated subnets",
		Long: `subnetctl talks to the subnets API. Every project receives the next
free /24 subnet when it is created; the subnet never changes afterwards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("SUBNETS_API_URL")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&opts.server, "server", server, "API base URL (env SUBNETS_API_URL)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newNextCmd(opts),
		newCatalogCmd(opts),
	)
	return root
}

func (o *cliOptions) client() *client.Client {
	return client.New(o.server)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
