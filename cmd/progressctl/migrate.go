package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/solbot-backend/internal/data/db"
	"github.com/yungbote/solbot-backend/internal/storage"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var recordLogPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the primary store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			if recordLogPath != "" {
				svc, err := db.NewSQLiteService(recordLogPath, log)
				if err != nil {
					return err
				}
				defer svc.Close()
				if err := storage.NewRecordLog(svc.DB(), log).Migrate(); err != nil {
					return fmt.Errorf("migrate record log: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "record log migrated: %s\n", recordLogPath)
				return nil
			}

			svc, err := opts.openPrimary(log)
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := db.AutoMigrateAll(svc.DB()); err != nil {
				return fmt.Errorf("migrate primary: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "primary store migrated (%s)\n", opts.driver)
			return nil
		},
	}
	cmd.Flags().StringVar(&recordLogPath, "record-log", "", "Migrate the record service SQLite file instead of the primary store")
	return cmd
}
