package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/web/templates/layout"
)

// RoomData holds data for the room detail page
type RoomData struct {
	layout.PageData
	Room      *model.Room
	InviteURL string
}

// Room renders the room detail page
func Room(data RoomData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		r := data.Room
		viewer := data.Username
		isOwner := r.Owner == viewer
		id := templ.EscapeString(string(r.ID))

		state := "Lobby"
		if r.GameStarted {
			state = "Active"
		}
		if _, err := fmt.Fprintf(w,
			`<section id="room"><h2>%s</h2><p class="state">%s</p>`,
			templ.EscapeString(r.Name), state); err != nil {
			return err
		}

		// Member list; roles are public once the game has started
		if _, err := io.WriteString(w, `<ul class="members">`); err != nil {
			return err
		}
		for _, member := range r.Members {
			tag := ""
			if member == r.Owner {
				tag = " (owner)"
			}
			role := ""
			if r.GameStarted {
				role = ": " + templ.EscapeString(string(r.RoleFor(member)))
			}
			if _, err := fmt.Fprintf(w, `<li>%s%s%s</li>`,
				templ.EscapeString(member), tag, role); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>`); err != nil {
			return err
		}

		if r.GameStarted {
			if _, err := fmt.Fprintf(w, `<p class="my-role">Your role: <strong>%s</strong></p>`,
				templ.EscapeString(string(r.RoleFor(viewer)))); err != nil {
				return err
			}
		}

		if isOwner {
			if !r.GameStarted {
				if _, err := fmt.Fprintf(w,
					`<form method="post" action="/room/%s/start"><button type="submit">Start game</button></form>`,
					id); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w,
					`<form method="post" action="/room/%s/reset"><button type="submit">Reset game</button></form>`,
					id); err != nil {
					return err
				}
			}
		}

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="/room/%s/leave"><button type="submit">Leave room</button></form>`,
			id); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w,
			`<section id="invite"><h3>Invite</h3>`+
				`<p><a href="%s">%s</a></p>`+
				`<img src="/room/%s/qr" alt="Invite QR code" width="256" height="256">`+
				`</section></section>`,
			templ.EscapeString(data.InviteURL), templ.EscapeString(data.InviteURL), id)
		return err
	}))
}
