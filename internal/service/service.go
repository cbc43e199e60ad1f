package service

import (
	"github.com/sirupsen/logrus"

	"giftbot/internal/repository"
)

// Service is the central business logic layer: the gift lifecycle engine,
// the access policy and the statistics aggregator. All state lives behind
// the repository interfaces so a test double can be substituted without
// touching any other code.
type Service struct {
	logger *logrus.Logger

	Gifts         repository.GiftRepository
	Contributions repository.ContributionRepository
	Participants  repository.ParticipantRepository
	Bans          repository.BanRepository
	Admins        repository.AdminRepository
	Facts         repository.FactRepository
	Aggregates    repository.StatsRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	gifts repository.GiftRepository,
	contributions repository.ContributionRepository,
	participants repository.ParticipantRepository,
	bans repository.BanRepository,
	admins repository.AdminRepository,
	facts repository.FactRepository,
	aggregates repository.StatsRepository,
) *Service {
	return &Service{
		logger: logger,
		Gifts:  gifts, Contributions: contributions, Participants: participants,
		Bans: bans, Admins: admins, Facts: facts, Aggregates: aggregates,
	}
}
