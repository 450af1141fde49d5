// Command floracart runs the FloraCart storefront server and its
// maintenance subcommands.
package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/floracart/floracart/config"
	"github.com/floracart/floracart/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:          "floracart",
		Short:        "FloraCart flower shop server",
		SilenceUsage: true,
		// Bare `floracart` starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "db:index",
			Short: "Create the MongoDB indexes",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := server.EnsureIndexes(cfg); err != nil {
					return err
				}
				fmt.Println("indexes created")
				return nil
			},
		},
		&cobra.Command{
			Use:   "routes",
			Short: "List the registered routes",
			Run: func(cmd *cobra.Command, args []string) {
				infos := server.Routes()
				sort.Slice(infos, func(i, j int) bool {
					if infos[i].Path != infos[j].Path {
						return infos[i].Path < infos[j].Path
					}
					return infos[i].Method < infos[j].Method
				})

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "METHOD\tPATH\tNAME")
				for _, ri := range infos {
					fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
				}
				w.Flush()
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return server.Run(cfg)
}
