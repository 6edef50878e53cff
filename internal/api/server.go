package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"bridgescan/internal/chain"
	"bridgescan/internal/config"
	"bridgescan/internal/query"
)

// Server is the HTTP read surface over the query service. Handlers are
// thin: parse path vars, call the view, encode JSON.
type Server struct {
	svc        *query.Service
	httpServer *http.Server
}

func NewServer(svc *query.Service, cfg *config.Config) *Server {
	s := &Server{svc: svc}

	r := mux.NewRouter()
	r.Use(commonMiddleware)
	if cfg.RateLimitRPS > 0 {
		r.Use(newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).middleware)
	}
	r.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS")
	registerAnalyticsRoutes(r.PathPrefix("/api/v1").Subrouter(), s)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.APIPort),
		Handler: r,
	}
	return s
}

// Handler exposes the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func registerAnalyticsRoutes(r *mux.Router, s *Server) {
	// Total routes first so "total" is not swallowed by the {chain} vars.
	r.HandleFunc("/analytics/volume/total", s.handleVolumeTotal).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/volume/total/tx_count", s.handleTxCountTotal).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/volume/total/tx_count/{direction}", s.handleTxCountTotal).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/volume/total/{direction}", s.handleVolumeTotal).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/volume/{chain}/filter/{token}/{direction}", s.handleVolumeForAddress).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/volume/{chain}/{direction}", s.handleVolume).Methods("GET", "OPTIONS")

	r.HandleFunc("/analytics/fees/admin/{chain}", s.handleAdminFees).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/admin/{chain}/pending", s.handlePendingAdminFees).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/validator/{chain}", s.handleValidatorGasFees).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/validator/{chain}/{token}", s.handleValidatorGasFees).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/bridge/{chain}/{token}", s.handleBridgeFees).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/airdrop/{chain}", s.handleAirdropAmounts).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/fees/airdrop/{chain}/{token}", s.handleAirdropAmounts).Methods("GET", "OPTIONS")

	r.HandleFunc("/analytics/pools/price/virtual/{chain}", s.handleVirtualPrice).Methods("GET", "OPTIONS")
	r.HandleFunc("/analytics/treasury/{chain}", s.handleTreasury).Methods("GET", "OPTIONS")
	r.HandleFunc("/charts/bridge/{chain}/{direction}", s.handleBridgeChart).Methods("GET", "OPTIONS")

	r.HandleFunc("/utils/date2block/{chain}/{date}", s.handleDateToBlock).Methods("GET", "OPTIONS")
	r.HandleFunc("/utils/syncing", s.handleSyncing).Methods("GET", "OPTIONS")
}

func commonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

// errorBody is the wire shape of every non-2xx response.
type errorBody struct {
	Error  string   `json:"error"`
	Valids []string `json:"valids,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var verr *query.ValidationError
	switch {
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, errorBody{Error: verr.Msg, Valids: verr.Valids})
	case errors.Is(err, chain.ErrNotDeployed):
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, errorBody{Error: "contract not deployed at block"})
	default:
		log.Printf("[api] internal error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, errorBody{Error: "internal error"})
	}
}

// parseBlock reads the optional ?block= query param. Absent or "latest"
// means the chain head.
func parseBlock(r *http.Request) (*big.Int, error) {
	raw := r.URL.Query().Get("block")
	if raw == "" || raw == "latest" {
		return nil, nil
	}
	block, ok := new(big.Int).SetString(raw, 10)
	if !ok || block.Sign() < 0 {
		return nil, &query.ValidationError{Msg: "invalid block num"}
	}
	return block, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
