package dashboard

import (
	"context"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/ledger"
	"github.com/mcoot/pointsrummy/internal/storage"
)

// RecentActivityLimit is how many ledger entries the player dashboard shows
const RecentActivityLimit = 10

// RoundCounter reports how many rounds are currently being played
type RoundCounter interface {
	ActiveRounds() int
}

// PlayerDashboard summarises a player's balance and progress
type PlayerDashboard struct {
	User            *model.User
	Coins           int
	GamesPlayed     int
	GamesWon        int
	WinRate         int // zero when no games have been played
	TotalEarnings   int
	Level           int
	LevelProgress   int
	WinsToNextLevel int
	Tier            string
	Recent          []*model.LedgerEntry
}

// AdminOverview summarises the whole economy
type AdminOverview struct {
	TotalPlayers       int
	CoinsInCirculation int
	ActiveRounds       int
}

// Service computes dashboard views
type Service struct {
	storage storage.Storage
	ledger  *ledger.Service
	rounds  RoundCounter
}

// New creates a new dashboard Service
func New(storage storage.Storage, ledgerService *ledger.Service, rounds RoundCounter) *Service {
	return &Service{
		storage: storage,
		ledger:  ledgerService,
		rounds:  rounds,
	}
}

// PlayerDashboard loads the user and derives their statistics
func (s *Service) PlayerDashboard(ctx context.Context, userID model.UserID) (*PlayerDashboard, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.History(ctx, userID, RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	winRate, _ := user.WinRate()
	return &PlayerDashboard{
		User:            user,
		Coins:           user.Coins,
		GamesPlayed:     user.GamesPlayed,
		GamesWon:        user.GamesWon,
		WinRate:         winRate,
		TotalEarnings:   user.TotalEarnings,
		Level:           user.Level(),
		LevelProgress:   user.LevelProgress(),
		WinsToNextLevel: user.WinsToNextLevel(),
		Tier:            user.Tier(),
		Recent:          recent,
	}, nil
}

// AdminOverview counts players, coins across every account and live rounds
func (s *Service) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	overview := &AdminOverview{ActiveRounds: s.rounds.ActiveRounds()}
	for _, u := range users {
		overview.CoinsInCirculation += u.Coins
		if u.Role == model.RolePlayer {
			overview.TotalPlayers++
		}
	}
	return overview, nil
}

// ListPlayers returns every player account in join order
func (s *Service) ListPlayers(ctx context.Context) ([]*model.User, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	players := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.Role == model.RolePlayer {
			players = append(players, u)
		}
	}
	return players, nil
}
