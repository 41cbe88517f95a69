package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// wireRepos returns nil when the primary store is not available.
func wireRepos(db *gorm.DB, log *logger.Logger) *repos.Set {
	if db == nil {
		return nil
	}
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}
