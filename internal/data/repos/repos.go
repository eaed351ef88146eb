package repos

import (
	"github.com/fieldnav/annotation-backend/internal/data/repos/evaluation"
	"github.com/fieldnav/annotation-backend/internal/data/repos/identity"
)

type ProfileRepo = identity.ProfileRepo

type SyntheticCaseRepo = evaluation.SyntheticCaseRepo
type SessionRepo = evaluation.SessionRepo
type Format1Repo = evaluation.Format1Repo
type Format2Repo = evaluation.Format2Repo
type Format3Repo = evaluation.Format3Repo

var (
	NewProfileRepo       = identity.NewProfileRepo
	NewSyntheticCaseRepo = evaluation.NewSyntheticCaseRepo
	NewSessionRepo       = evaluation.NewSessionRepo
	NewFormat1Repo       = evaluation.NewFormat1Repo
	NewFormat2Repo       = evaluation.NewFormat2Repo
	NewFormat3Repo       = evaluation.NewFormat3Repo
)
