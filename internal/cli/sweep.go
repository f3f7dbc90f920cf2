package cli

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/mailsweep/mailsweep/internal/config"
	"github.com/mailsweep/mailsweep/internal/imapclient"
	"github.com/mailsweep/mailsweep/internal/sweeper"
)

func sweepCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Find and delete emails from non-priority senders",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "mailbox",
				Usage: "Mailbox folder to sweep",
				Value: imapclient.DefaultMailbox,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show matching emails without prompting or deleting",
			},
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
			fmt.Fprintf(c.App.Writer, "Loaded %d non-priority senders from %s\n", len(senders), cfgPath)

			creds, err := config.CredentialsFromEnv()
			if err != nil {
				return err
			}

			connector := imapclient.NewConnector(
				imapclient.WithAddr(creds.Addr),
				imapclient.WithCreds(creds.User, creds.Pass),
				imapclient.WithMailbox(c.String("mailbox")),
			)

			runner, err := sweeper.NewRunner(
				sweeper.WithSession(connector),
				sweeper.WithSenders(senders),
				sweeper.WithRunnerLogger(logger),
				sweeper.WithInput(c.App.Reader),
				sweeper.WithOutput(c.App.Writer),
				sweeper.WithDryRun(c.Bool("dry-run")),
			)
			if err != nil {
				return err
			}

			if err := runner.Run(); err != nil {
				if imapclient.IsAuth(err) {
					fmt.Fprintln(c.App.ErrWriter, "Authentication failed. Use an app password instead of the account password.")
				}
				return err
			}
			return nil
		},
	}
}
