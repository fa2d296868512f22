package pages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/pointsrummy/internal/model"
)

func winRate(u *model.User) string {
	rate, ok := u.WinRate()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", rate)
}

// signed shows credits with a leading plus
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func kindLabel(k model.LedgerKind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}

func date(t time.Time) string {
	return t.Format("2 Jan 2006")
}

func adjustCoinsURL(id model.UserID) string {
	return "/admin/players/" + string(id) + "/coins"
}
