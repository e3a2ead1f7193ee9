package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/web/templates/layout"
)

// HomeData holds data for the home page
type HomeData struct {
	layout.PageData
	Rooms []model.RoomSummary

	// Form redisplay state
	LoginError     string
	RegisterError  string
	FormUsername   string
	RegisterActive bool // show the register form expanded after a failed submit
}

// Home renders the home page: auth forms for visitors, the room list and
// room forms for members.
func Home(data HomeData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Username == "" {
			return authForms(data).Render(ctx, w)
		}
		return roomList(data).Render(ctx, w)
	})
	return layout.Base(data.PageData, body)
}

func authForms(data HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		username := templ.EscapeString(data.FormUsername)

		if _, err := fmt.Fprintf(w,
			`<section id="login"><h2>Log in</h2>%s`+
				`<form method="post" action="/auth/login">`+
				`<input name="username" placeholder="Username" value="%s" required>`+
				`<input name="password" type="password" placeholder="Password" required>`+
				`<button type="submit">Log in</button></form></section>`,
			errorLine(data.LoginError), username); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w,
			`<section id="register"><h2>Register</h2>%s`+
				`<form method="post" action="/auth/register">`+
				`<input name="username" placeholder="Username (3+ characters)" value="%s" required>`+
				`<input name="password" type="password" placeholder="Password (6+ characters)" required>`+
				`<input name="password_confirm" type="password" placeholder="Confirm password" required>`+
				`<button type="submit">Create account</button></form></section>`,
			errorLine(data.RegisterError), username)
		return err
	})
}

func roomList(data HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<section id="rooms"><h2>Your rooms</h2>`); err != nil {
			return err
		}

		if len(data.Rooms) == 0 {
			if _, err := io.WriteString(w, `<p>No rooms yet.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ul class="room-list">`); err != nil {
				return err
			}
			for _, room := range data.Rooms {
				state := "lobby"
				if room.GameStarted {
					state = "active"
				}
				if _, err := fmt.Fprintf(w,
					`<li><a href="/room/%s">%s</a> (owner %s, %d member(s), %s)</li>`,
					templ.EscapeString(string(room.ID)), templ.EscapeString(room.Name),
					templ.EscapeString(room.Owner), room.MemberCount, state); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w,
			`</section>`+
				`<section id="create-room"><h2>Create a room</h2>`+
				`<form method="post" action="/room">`+
				`<input name="name" placeholder="Room name (optional)">`+
				`<button type="submit">Create</button></form></section>`+
				`<section id="join-room"><h2>Join by id</h2>`+
				`<form method="post" action="/room/join">`+
				`<input name="room_id" placeholder="room_..." required>`+
				`<button type="submit">Join</button></form></section>`)
		return err
	})
}

func errorLine(msg string) string {
	if msg == "" {
		return ""
	}
	return `<p class="error">` + templ.EscapeString(msg) + `</p>`
}
