package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/solbot-backend/internal/data/db"
	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type rootOptions struct {
	driver     string
	sqlitePath string
	logMode    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "progressctl",
		Short:         "Operate the learner progress pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", envutil.String("PRIMARY_DRIVER", "postgres", nil), "Primary store driver (postgres or sqlite)")
	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite-path", envutil.String("SQLITE_PATH", "solbot.db", nil), "SQLite file when --driver=sqlite")
	cmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", envutil.String("LOG_MODE", "development", nil), "Logger mode")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedRubricsCmd(opts))
	cmd.AddCommand(newTierCmd(opts))
	return cmd
}

func (o *rootOptions) logger() (*logger.Logger, error) {
	return logger.New(o.logMode)
}

func (o *rootOptions) openPrimary(log *logger.Logger) (db.Service, error) {
	return db.Open(o.driver, o.sqlitePath, log)
}
