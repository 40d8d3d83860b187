package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route table. Auth endpoints are public;
// everything under /prospects and /backups requires a bearer token.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/ping", instrument("ping", h.ping)).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", instrument("register", h.register)).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", instrument("login", h.login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", instrument("refresh", h.refresh)).Methods(http.MethodPost)

	api.HandleFunc("/prospects", instrument("upsert_prospect", withAuth(h.users, h.upsertProspect))).Methods(http.MethodPut)
	api.HandleFunc("/prospects", instrument("list_prospects", withAuth(h.users, h.listProspects))).Methods(http.MethodGet)
	api.HandleFunc("/backups/presign", instrument("presign_backup", withAuth(h.users, h.presignBackup))).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
