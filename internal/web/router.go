package web

import (
	"net/http"

	"jobtracker/internal/httpapi"
)

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.List,
	}))
	mux.HandleFunc("/jobs/new", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.NewJob,
	}))
	mux.HandleFunc("/jobs/save", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.Save,
	}))
	mux.HandleFunc("/jobs/close", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.CloseForm,
	}))
	mux.HandleFunc("/jobs/delete/confirm", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.ConfirmDelete,
	}))
	mux.HandleFunc("/jobs/delete/cancel", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.CancelDelete,
	}))
	mux.HandleFunc("/jobs/", s.Jobs)
	mux.HandleFunc("/notifications/", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.Dismiss,
	}))

	eh := httpapi.EventsHandler{Hub: s.hub}
	mux.HandleFunc("/events", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))
	hh := httpapi.HealthHandler{}
	mux.HandleFunc("/health", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))
	return mux
}

func (s *Server) Handler() http.Handler {
	return httpapi.Standard(s.Routes())
}
