// Package layout holds the shared page frame for the web UI.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds fields every page needs
type PageData struct {
	Title    string
	Username string // empty when not logged in
	Flash    *FlashMessage
}

// Base wraps a page body in the shared HTML frame
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s | Bunker</title></head><body>`,
			templ.EscapeString(data.Title)); err != nil {
			return err
		}

		if err := nav(data).Render(ctx, w); err != nil {
			return err
		}
		if err := flash(data.Flash).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func nav(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav><a href="/">Bunker</a>`); err != nil {
			return err
		}
		if data.Username != "" {
			if _, err := fmt.Fprintf(w,
				`<span>%s</span>`+
					`<form method="post" action="/auth/logout"><button type="submit">Log out</button></form>`,
				templ.EscapeString(data.Username)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

func flash(f *FlashMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if f == nil {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="flash flash-%s">%s</div>`,
			templ.EscapeString(f.Type), templ.EscapeString(f.Message))
		return err
	})
}
