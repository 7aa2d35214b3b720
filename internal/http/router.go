package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterConfig wires handlers and cross-cutting middleware into the server
// mux. Sessions guards authenticated routes; public listings still accept a
// token so planner views stay elevated.
type RouterConfig struct {
	Auth           *AuthHandler
	Guests         *GuestHandler
	Events         *EventHandler
	RSVPs          *RSVPHandler
	FAQ            *FAQHandler
	Travel         *TravelHandler
	Flags          *FlagHandler
	Communications *CommunicationHandler
	Chats          *ChatHandler
	Stories        *StoryHandler
	Media          *MediaHandler
	MediaFiles     http.Handler
	Realtime       http.Handler
	Metrics        http.Handler
	Sessions       SessionValidator
	Logger         *slog.Logger
	Middleware     []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	require := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.Sessions == nil {
			return h
		}
		return RequireSession(cfg.Sessions, cfg.Logger)(h).ServeHTTP
	}
	public := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.Sessions == nil {
			return h
		}
		return OptionalSession(cfg.Sessions)(h).ServeHTTP
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Guests != nil {
		mux.HandleFunc("/guests", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				require(cfg.Guests.List)(w, r)
			case http.MethodPost:
				require(cfg.Guests.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/guests/import", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			require(cfg.Guests.Import)(w, r)
		})
		mux.HandleFunc("/guests/duplicates", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			require(cfg.Guests.Duplicates)(w, r)
		})
		mux.HandleFunc("/guests/export", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			require(cfg.Guests.Export)(w, r)
		})
		mux.HandleFunc("/guests/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/guests/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if id, ok := strings.CutSuffix(rest, "/password"); ok && cfg.Auth != nil {
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), id))
				require(cfg.Auth.SetPassword)(w, r)
				return
			}
			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), rest))
			switch r.Method {
			case http.MethodGet:
				require(cfg.Guests.Get)(w, r)
			case http.MethodPut:
				require(cfg.Guests.Update)(w, r)
			case http.MethodDelete:
				require(cfg.Guests.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Events != nil {
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.Events.List)(w, r)
			case http.MethodPost:
				require(cfg.Events.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/events/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				public(cfg.Events.Get)(w, r)
			case http.MethodPut:
				require(cfg.Events.Update)(w, r)
			case http.MethodDelete:
				require(cfg.Events.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.RSVPs != nil {
		mux.HandleFunc("/rsvps", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				require(cfg.RSVPs.List)(w, r)
			case http.MethodPost:
				require(cfg.RSVPs.Submit)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rsvps/stats", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			require(cfg.RSVPs.Stats)(w, r)
		})
		mux.HandleFunc("/rsvps/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/rsvps/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				require(cfg.RSVPs.Get)(w, r)
			case http.MethodPut:
				require(cfg.RSVPs.Update)(w, r)
			case http.MethodDelete:
				require(cfg.RSVPs.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.FAQ != nil {
		mux.HandleFunc("/faq/categories", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.FAQ.ListCategories)(w, r)
			case http.MethodPost:
				require(cfg.FAQ.CreateCategory)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/faq/categories/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/faq/categories/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				require(cfg.FAQ.UpdateCategory)(w, r)
			case http.MethodDelete:
				require(cfg.FAQ.DeleteCategory)(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/faq/items", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.FAQ.ListItems)(w, r)
			case http.MethodPost:
				require(cfg.FAQ.CreateItem)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/faq/items/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/faq/items/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				require(cfg.FAQ.UpdateItem)(w, r)
			case http.MethodDelete:
				require(cfg.FAQ.DeleteItem)(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Travel != nil {
		mux.HandleFunc("/accommodation/categories", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.Travel.ListAccommodationCategories)(w, r)
			case http.MethodPost:
				require(cfg.Travel.CreateAccommodationCategory)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/accommodation/categories/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/accommodation/categories/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				require(cfg.Travel.UpdateAccommodationCategory)(w, r)
			case http.MethodDelete:
				require(cfg.Travel.DeleteAccommodationCategory)(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/accommodation/options", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.Travel.ListAccommodationOptions)(w, r)
			case http.MethodPost:
				require(cfg.Travel.CreateAccommodationOption)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/accommodation/options/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/accommodation/options/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				public(cfg.Travel.GetAccommodationOption)(w, r)
			case http.MethodPut:
				require(cfg.Travel.UpdateAccommodationOption)(w, r)
			case http.MethodDelete:
				require(cfg.Travel.DeleteAccommodationOption)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/transport/options", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.Travel.ListTransportOptions)(w, r)
			case http.MethodPost:
				require(cfg.Travel.CreateTransportOption)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/transport/options/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/transport/options/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				require(cfg.Travel.UpdateTransportOption)(w, r)
			case http.MethodDelete:
				require(cfg.Travel.DeleteTransportOption)(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Flags != nil {
		mux.HandleFunc("/flags", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				require(cfg.Flags.List)(w, r)
			case http.MethodPost:
				require(cfg.Flags.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/flags/evaluate", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			public(cfg.Flags.Evaluate)(w, r)
		})
		mux.HandleFunc("/flags/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/flags/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				require(cfg.Flags.Get)(w, r)
			case http.MethodPut:
				require(cfg.Flags.Update)(w, r)
			case http.MethodDelete:
				require(cfg.Flags.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Communications != nil {
		mux.HandleFunc("/communications", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				require(cfg.Communications.List)(w, r)
			case http.MethodPost:
				require(cfg.Communications.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/communications/export", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			require(cfg.Communications.Export)(w, r)
		})
		mux.HandleFunc("/communications/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/communications/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				require(cfg.Communications.Get)(w, r)
			case http.MethodDelete:
				require(cfg.Communications.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		})
	}

	if cfg.Chats != nil {
		mux.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				require(cfg.Chats.List)(w, r)
			case http.MethodPost:
				require(cfg.Chats.Start)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/chats/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/chats/"), "/messages")
			if !ok || id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				require(cfg.Chats.ListMessages)(w, r)
			case http.MethodPost:
				require(cfg.Chats.SendMessage)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Stories != nil {
		mux.HandleFunc("/stories", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				public(cfg.Stories.List)(w, r)
			case http.MethodPost:
				require(cfg.Stories.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/stories/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/stories/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				public(cfg.Stories.Get)(w, r)
			case http.MethodPut:
				require(cfg.Stories.Update)(w, r)
			case http.MethodDelete:
				require(cfg.Stories.Delete)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Media != nil {
		mux.HandleFunc("/media/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				if cfg.MediaFiles == nil {
					http.NotFound(w, r)
					return
				}
				http.StripPrefix("/media/", cfg.MediaFiles).ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
				return
			}
			bucket := strings.Trim(strings.TrimPrefix(r.URL.Path, "/media/"), "/")
			if bucket == "" || strings.Contains(bucket, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), bucket))
			require(cfg.Media.Upload)(w, r)
		})
	}

	if cfg.Realtime != nil {
		mux.Handle("/realtime/", cfg.Realtime)
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
