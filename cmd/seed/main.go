// Command seed checks that the CMS is up and prints the commands that
// create the sample institutions.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sona-group/institution-cms/internal/config"
	"github.com/sona-group/institution-cms/internal/seed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		file    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Print commands that create the sample institutions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := seed.Defaults()
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if items, err = seed.Parse(data); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return seed.Run(ctx, cmd.OutOrStdout(), &http.Client{}, baseURL, items)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", config.PublicURL(), "base URL of the running server (defaults to STRAPI_URL)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with institutions to use instead of the built-in samples")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "health check timeout")
	return cmd
}
