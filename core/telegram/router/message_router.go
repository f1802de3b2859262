package router

import (
	"time"

	tg "github.com/roshaa-market/hrbot/core/telegram"
	"github.com/roshaa-market/hrbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MessageOptions binds conversational update kinds to their handlers.
// All three feed the same conversation intake; they are split only because
// telebot dispatches text, contact, and photo updates on separate endpoints.
type MessageOptions struct {
	OnText    tele.HandlerFunc
	OnContact tele.HandlerFunc
	OnPhoto   tele.HandlerFunc
}

// MessageRoutes builds routes for text, contact, and photo updates wrapped
// with the shared middleware chain and per-handler summary logging.
func MessageRoutes(opts MessageOptions) []tg.Route {
	var routes []tg.Route

	add := func(endpoint any, name string, h tele.HandlerFunc) {
		if h == nil {
			return
		}
		wrapped := func(c tele.Context) error {
			start := time.Now()
			return handleWithSummary(c, name, start, "", "", func() error {
				return h(c)
			})
		}
		routes = append(routes, tg.Route{
			Endpoint: endpoint,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(wrapped)),
		})
	}

	add(tele.OnText, "message.text", opts.OnText)
	add(tele.OnContact, "message.contact", opts.OnContact)
	add(tele.OnPhoto, "message.photo", opts.OnPhoto)

	return routes
}
