package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mailsweep/mailsweep/internal/config"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check the senders file and credentials without connecting",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(c *cli.Context) error {
			cfgPath, err := resolveConfigPath(c)
			if err != nil {
				return err
			}

			if err := loadEnvFile(); err != nil {
				return err
			}

			senders, err := config.LoadSenders(cfgPath)
			if err != nil {
				return err
			}

			creds, err := config.CredentialsFromEnv()
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, config.Summary(cfgPath, senders, creds))
			return nil
		},
	}
}
