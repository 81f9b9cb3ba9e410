package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/edvin/subnets/internal/client"
	"github.com/edvin/subnets/internal/model"
)

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := opts.client().ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects")
				return nil
			}
			return printProjects(out, projects...)
		},
	}
}

func newGetCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client().GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProject(cmd.OutOrStdout(), opts, p)
		},
	}
}

func newCreateCmd(opts *cliOptions) *cobra.Command {
	var req client.CreateRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project and allocate its subnet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = strings.TrimSpace(req.Name)
			if req.Name == "" || req.Provider == "" {
				return errors.New("--name and --provider are required")
			}
			p, err := opts.client().CreateProject(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printProject(cmd.OutOrStdout(), opts, p)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "project name")
	cmd.Flags().StringVar(&req.Status, "status", "", "status (server default when empty)")
	cmd.Flags().StringVar(&req.Provider, "provider", "", "cloud provider")
	return cmd
}

func newUpdateCmd(opts *cliOptions) *cobra.Command {
	var name, status, provider string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a project's name, status or provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("provider") {
				req.Provider = &provider
			}
			if req.Name == nil && req.Status == nil && req.Provider == nil {
				return errors.New("nothing to update: set --name, --status or --provider")
			}
			p, err := opts.client().UpdateProject(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printProject(cmd.OutOrStdout(), opts, p)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&provider, "provider", "", "new provider")
	return cmd
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().DeleteProject(cmd.Context(), args[0]); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("project %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}
}

func newNextCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the subnet the next project would receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := opts.client().NextSubnet(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"subnet": next})
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

func newCatalogCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List accepted statuses and providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client().Catalog(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, c)
			}
			fmt.Fprintf(out, "Statuses:  %s\n", strings.Join(c.Statuses, ", "))
			fmt.Fprintf(out, "Providers: %s\n", strings.Join(c.Providers, ", "))
			return nil
		},
	}
}

func printProject(w io.Writer, opts *cliOptions, p *model.Project) error {
	if opts.jsonOutput {
		return printJSON(w, p)
	}
	return printProjects(w, *p)
}

func printProjects(w io.Writer, projects ...model.Project) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSUBNET\tSTATUS\tPROVIDER\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Subnet, p.Status, p.Provider, p.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
