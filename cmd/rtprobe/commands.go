package main

import (
	"context"
	"io"
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/dispatch"
)

func newTCPCmd(v *viper.Viper) *cobra.Command {
	var local string
	cmd := &cobra.Command{
		Use:   "tcp HOST PORT",
		Short: "Open a TCP stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			port, err := parsePort(args[1])
			if err != nil {
				return err
			}
			host := args[0]
			return runProbe(cmd.Context(), s, cmd.OutOrStdout(), func(ctx context.Context, d *dispatch.Dispatcher, out io.Writer) error {
				stream, err := d.OpenTCPStream(ctx, host, port, s.tlsConfig(host), s.timeouts(), local)
				if err != nil {
					return err
				}
				return exchange(ctx, s, stream, out)
			})
		},
	}
	cmd.Flags().StringVar(&local, "local-address", "", "local IP to bind before connecting")
	return cmd
}

func newUDSCmd(v *viper.Viper) *cobra.Command {
	var hostname string
	cmd := &cobra.Command{
		Use:   "uds PATH",
		Short: "Open a Unix domain socket stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			path := args[0]
			return runProbe(cmd.Context(), s, cmd.OutOrStdout(), func(ctx context.Context, d *dispatch.Dispatcher, out io.Writer) error {
				stream, err := d.OpenUDSStream(ctx, path, hostname, s.tlsConfig(hostname), s.timeouts())
				if err != nil {
					return err
				}
				return exchange(ctx, s, stream, out)
			})
		},
	}
	cmd.Flags().StringVar(&hostname, "hostname", "localhost", "hostname for TLS verification")
	return cmd
}

func newSocksCmd(v *viper.Viper) *cobra.Command {
	var (
		proxyAddr string
		proxyType string
		user      string
		password  string
	)
	cmd := &cobra.Command{
		Use:   "socks HOST PORT",
		Short: "Open a stream through a SOCKS5 proxy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			port, err := parsePort(args[1])
			if err != nil {
				return err
			}
			proxyHost, proxyPortRaw, err := net.SplitHostPort(proxyAddr)
			if err != nil {
				return err
			}
			proxyPort, err := parsePort(proxyPortRaw)
			if err != nil {
				return err
			}
			proxy := api.SocksProxy{Hostname: proxyHost, Port: proxyPort, Type: api.ProxyType(proxyType)}
			if user != "" || password != "" {
				proxy.Credentials = &api.SocksCredentials{Username: user, Password: password}
			}
			host := args[0]
			return runProbe(cmd.Context(), s, cmd.OutOrStdout(), func(ctx context.Context, d *dispatch.Dispatcher, out io.Writer) error {
				stream, err := d.OpenSocksStream(ctx, host, port, proxy, s.tlsConfig(host), s.timeouts())
				if err != nil {
					return err
				}
				return exchange(ctx, s, stream, out)
			})
		},
	}
	cmd.Flags().StringVar(&proxyAddr, "proxy", "", "proxy address HOST:PORT")
	cmd.Flags().StringVar(&proxyType, "proxy-type", string(api.ProxySOCKS5), "proxy protocol")
	cmd.Flags().StringVar(&user, "proxy-user", "", "proxy username")
	cmd.Flags().StringVar(&password, "proxy-password", "", "proxy password")
	_ = cmd.MarkFlagRequired("proxy")
	return cmd
}

func newClockCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Read the runtime clock and exercise a lock and semaphore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			return runProbe(cmd.Context(), s, cmd.OutOrStdout(), func(ctx context.Context, d *dispatch.Dispatcher, out io.Writer) error {
				lock, err := d.CreateLock(ctx)
				if err != nil {
					return err
				}
				sem, err := d.CreateSemaphore(ctx, 1, nil)
				if err != nil {
					return err
				}
				return api.WithLock(ctx, lock, func() error {
					if err := sem.Acquire(ctx, 0); err != nil {
						return err
					}
					return sem.Release()
				})
			})
		},
	}
}
