package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/solbot-backend/internal/data/db"
	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/rubrics"
	"github.com/yungbote/solbot-backend/internal/storage"
)

func newSeedRubricsCmd(opts *rootOptions) *cobra.Command {
	var file, recordLogPath string
	cmd := &cobra.Command{
		Use:   "seed-rubrics",
		Short: "Load rubric definitions from YAML into a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			list, err := rubrics.LoadFile(file)
			if err != nil {
				return err
			}
			log, err := opts.logger()
			if err != nil {
				return err
			}
			defer log.Sync()
			ctx := cmd.Context()

			if recordLogPath != "" {
				svc, err := db.NewSQLiteService(recordLogPath, log)
				if err != nil {
					return err
				}
				defer svc.Close()
				rl := storage.NewRecordLog(svc.DB(), log)
				if err := rl.Migrate(); err != nil {
					return fmt.Errorf("migrate record log: %w", err)
				}
				if err := rubrics.SeedRecordLog(ctx, rl, list); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rubrics into record log %s\n", len(list), recordLogPath)
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
			if err := rubrics.SeedPrimary(ctx, repos.NewRubricRepo(svc.DB(), log), list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rubrics into primary store\n", len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", envutil.String("RUBRICS_FILE", "", nil), "Rubric YAML file")
	cmd.Flags().StringVar(&recordLogPath, "record-log", "", "Seed the record service SQLite file instead of the primary store")
	return cmd
}
