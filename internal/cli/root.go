package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const defaultEnvFile = ".env"

// New builds the mailsweep CLI application.
func New(logger *slog.Logger) *cli.App {
	return &cli.App{
		Name:  "mailsweep",
		Usage: "bulk-delete emails from configured non-priority senders",
		Commands: []*cli.Command{
			sweepCommand(logger),
			validateCommand(),
		},
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to the senders JSON file",
		EnvVars: []string{"MAILSWEEP_CONFIG"},
	}
}

func resolveConfigPath(c *cli.Context) (string, error) {
	path := strings.TrimSpace(c.String("config"))
	if path == "" {
		return "", errors.New("config path is required via --config or MAILSWEEP_CONFIG")
	}
	return path, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(defaultEnvFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(defaultEnvFile)
}
