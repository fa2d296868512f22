package pages

import (
	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/dashboard"
	"github.com/mcoot/pointsrummy/internal/services/seed"
	"github.com/mcoot/pointsrummy/internal/web/templates/components"
	"github.com/mcoot/pointsrummy/internal/web/templates/layout"
)

// HomeData drives the login and registration page
type HomeData struct {
	layout.PageData
	Next          string
	Email         string
	Name          string
	LoginError    string
	RegisterError string
	FieldErrors   map[string]string
	DemoAccounts  []seed.DemoAccount
}

// DashboardData drives the player dashboard
type DashboardData struct {
	layout.PageData
	Stats    *dashboard.PlayerDashboard
	EntryFee int
	Winnings int
}

// GameData drives the game page
type GameData struct {
	layout.PageData
	Board components.BoardData
}

// AdminData drives the admin panel
type AdminData struct {
	layout.PageData
	Overview *dashboard.AdminOverview
	Players  []*model.User
}

// ErrorData drives the error page
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}
