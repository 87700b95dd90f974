package app

import (
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type Repos struct {
	Order             repos.OrderRepo
	Negotiation       repos.NegotiationRepo
	Contract          repos.ContractRepo
	ContractApproval  repos.ContractApprovalRepo
	ContractSignature repos.ContractSignatureRepo
	RecapManager      repos.RecapManagerRepo
	Fixture           repos.FixtureRepo
	ActivityLog       repos.ActivityLogRepo
	FieldChange       repos.FieldChangeRepo
	Refdata           repos.RefdataRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Order:             repos.NewOrderRepo(db, log),
		Negotiation:       repos.NewNegotiationRepo(db, log),
		Contract:          repos.NewContractRepo(db, log),
		ContractApproval:  repos.NewContractApprovalRepo(db, log),
		ContractSignature: repos.NewContractSignatureRepo(db, log),
		RecapManager:      repos.NewRecapManagerRepo(db, log),
		Fixture:           repos.NewFixtureRepo(db, log),
		ActivityLog:       repos.NewActivityLogRepo(db, log),
		FieldChange:       repos.NewFieldChangeRepo(db, log),
		Refdata:           repos.NewRefdataRepo(db, log),
	}
}
