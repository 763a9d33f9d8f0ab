// boltcli runs statements against a bolt server and prints the results,
// useful for poking at a server or capturing recordings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphwire/bolt"
	"github.com/graphwire/bolt/config"
	"github.com/graphwire/bolt/log"
	"github.com/graphwire/bolt/value"
)

var (
	cfgFile  string
	addr     string
	user     string
	password string
	logLevel string
)

func main() {
	root := &cobra.Command{
		Use:           "boltcli",
		Short:         "Run statements against a bolt server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVarP(&addr, "addr", "a", "", "server address (host:port)")
	root.PersistentFlags().StringVarP(&user, "user", "u", "", "principal to authenticate as")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "credentials for the principal")
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level: trace, info, error")

	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if user != "" {
		cfg.Auth.Scheme = "basic"
		cfg.Auth.Principal = user
		cfg.Auth.Credentials = password
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.Addr == "" {
		return nil, fmt.Errorf("no server address: set --addr or addr in the config file")
	}
	return cfg, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <statement>",
		Short: "Execute a statement and print each record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			driver := bolt.NewDriver(cfg)
			conn, err := driver.Open("bolt://" + cfg.Addr)
			if err != nil {
				return err
			}
			defer conn.Close()

			session, err := conn.NewSession()
			if err != nil {
				return err
			}
			defer session.Close()

			records, summary, err := session.Query(args[0], value.NewMap())
			if err != nil {
				return err
			}
			for _, record := range records {
				for i, v := range record {
					if i > 0 {
						fmt.Print("\t")
					}
					fmt.Print(v.String())
				}
				fmt.Println()
			}
			if summary.Len() > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "summary: %s\n", summary.String())
			}
			return nil
		},
	}
}
