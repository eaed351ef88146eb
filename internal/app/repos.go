package app

import (
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/data/repos"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Repos struct {
	Profile       repos.ProfileRepo
	SyntheticCase repos.SyntheticCaseRepo
	Session       repos.SessionRepo
	Format1       repos.Format1Repo
	Format2       repos.Format2Repo
	Format3       repos.Format3Repo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:       repos.NewProfileRepo(db, log),
		SyntheticCase: repos.NewSyntheticCaseRepo(db, log),
		Session:       repos.NewSessionRepo(db, log),
		Format1:       repos.NewFormat1Repo(db, log),
		Format2:       repos.NewFormat2Repo(db, log),
		Format3:       repos.NewFormat3Repo(db, log),
	}
}
