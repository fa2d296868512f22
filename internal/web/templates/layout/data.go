package layout

import "github.com/mcoot/pointsrummy/internal/model"

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string
	Message string
}

// PageData is shared by every full page
type PageData struct {
	Title string
	User  *model.User
	Flash *FlashMessage
}

// IsAdmin reports whether the signed-in user may see admin links
func (p PageData) IsAdmin() bool {
	return p.User != nil && p.User.IsAdmin()
}
