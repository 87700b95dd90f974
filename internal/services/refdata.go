package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/fairlead/chartering-backend/internal/clients/redis"
	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// RefdataService resolves reference ids to display strings for the
// search rollup. The cache is optional; nil means every resolve goes
// straight to the database.
type RefdataService interface {
	ResolveDisplayNames(ctx context.Context, tx *gorm.DB, ids lifecycle.RefIDs) (map[uuid.UUID]string, error)
}

type refdataService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.RefdataRepo
	cache redisclient.NameCache
}

func NewRefdataService(db *gorm.DB, baseLog *logger.Logger, repo repos.RefdataRepo, cache redisclient.NameCache) RefdataService {
	return &refdataService{
		db:    db,
		log:   baseLog.With("service", "RefdataService"),
		repo:  repo,
		cache: cache,
	}
}

func (s *refdataService) ResolveDisplayNames(ctx context.Context, tx *gorm.DB, ids lifecycle.RefIDs) (map[uuid.UUID]string, error) {
	names := map[uuid.UUID]string{}

	vessels := s.splitCached(ctx, ids.Vessels, names)
	companies := s.splitCached(ctx, ids.Companies, names)
	ports := s.splitCached(ctx, ids.Ports, names)
	cargoTypes := s.splitCached(ctx, ids.CargoTypes, names)
	users := s.splitCached(ctx, ids.Users, names)

	if len(vessels) > 0 {
		rows, err := s.repo.GetVesselsByIDs(ctx, tx, vessels)
		if err != nil {
			return nil, err
		}
		for _, v := range rows {
			s.put(ctx, names, v.ID, v.DisplayName())
		}
	}
	if len(companies) > 0 {
		rows, err := s.repo.GetCompaniesByIDs(ctx, tx, companies)
		if err != nil {
			return nil, err
		}
		for _, c := range rows {
			s.put(ctx, names, c.ID, c.DisplayName())
		}
	}
	if len(ports) > 0 {
		rows, err := s.repo.GetPortsByIDs(ctx, tx, ports)
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			s.put(ctx, names, p.ID, p.DisplayName())
		}
	}
	if len(cargoTypes) > 0 {
		rows, err := s.repo.GetCargoTypesByIDs(ctx, tx, cargoTypes)
		if err != nil {
			return nil, err
		}
		for _, c := range rows {
			s.put(ctx, names, c.ID, c.DisplayName())
		}
	}
	if len(users) > 0 {
		rows, err := s.repo.GetUsersByIDs(ctx, tx, users)
		if err != nil {
			return nil, err
		}
		for _, u := range rows {
			s.put(ctx, names, u.ID, u.DisplayName())
		}
	}

	return names, nil
}

// splitCached fills names from the cache and returns the ids still to
// be loaded. Duplicates collapse here so each id is queried once.
func (s *refdataService) splitCached(ctx context.Context, ids []uuid.UUID, names map[uuid.UUID]string) []uuid.UUID {
	var misses []uuid.UUID
	for _, id := range ids {
		if _, done := names[id]; done {
			continue
		}
		if s.cache != nil {
			if val, ok := s.cache.Get(ctx, cacheKey(id)); ok {
				names[id] = val
				continue
			}
		}
		dup := false
		for _, m := range misses {
			if m == id {
				dup = true
				break
			}
		}
		if !dup {
			misses = append(misses, id)
		}
	}
	return misses
}

func (s *refdataService) put(ctx context.Context, names map[uuid.UUID]string, id uuid.UUID, display string) {
	names[id] = display
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey(id), display)
	}
}

func cacheKey(id uuid.UUID) string { return "refname:" + id.String() }
