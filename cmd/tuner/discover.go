package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sdr/internal/discovery"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Browse the local network for advertised tuner monitors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			hosts, err := discovery.Browse(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(hosts) == 0 {
				fmt.Fprintln(w, "no tuner monitors found")
				return nil
			}
			for _, h := range hosts {
				addrs := make([]string, len(h.Addresses))
				for i, ip := range h.Addresses {
					addrs[i] = ip.String()
				}
				fmt.Fprintf(w, "%s\t%s:%d\t%s\t%s\n", h.Instance, h.Hostname, h.Port,
					strings.Join(addrs, ","), strings.Join(h.Text, " "))
			}
			a.log.Debug("browse finished", logging.F("hosts", len(hosts)))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to listen for announcements")

	return cmd
}
