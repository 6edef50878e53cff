package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"bridgescan/internal/config"
	"bridgescan/internal/query"
)

// directionOr returns the direction path var, or def when the optional
// segment was omitted.
func directionOr(r *http.Request, def string) string {
	if d, ok := mux.Vars(r)["direction"]; ok {
		return d
	}
	return def
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rep, err := s.svc.ChainVolume(r.Context(), vars["chain"], vars["direction"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleVolumeForAddress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rep, err := s.svc.ChainVolumeForAddress(r.Context(), vars["token"], vars["chain"], vars["direction"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleVolumeTotal(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.ChainVolumeTotal(r.Context(), directionOr(r, "in"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleTxCountTotal(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.ChainTxCountTotal(r.Context(), directionOr(r, "in"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleAdminFees(w http.ResponseWriter, r *http.Request) {
	block, err := parseBlock(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fees, err := s.svc.AdminFees(r.Context(), mux.Vars(r)["chain"], block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"admin_fees": fees})
}

func (s *Server) handlePendingAdminFees(w http.ResponseWriter, r *http.Request) {
	block, err := parseBlock(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var tokens []string
	if raw, ok := r.URL.Query()["token"]; ok {
		tokens = raw
	}
	fees, err := s.svc.PendingAdminFees(r.Context(), mux.Vars(r)["chain"], tokens, block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"pending_admin_fees": fees})
}

func (s *Server) handleValidatorGasFees(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := s.svc.ValidatorGasFees(r.Context(), vars["chain"], vars["token"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"data": res})
}

func (s *Server) handleBridgeFees(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rep, err := s.svc.BridgeFees(r.Context(), vars["chain"], vars["token"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleAirdropAmounts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rep, err := s.svc.AirdropAmounts(r.Context(), vars["chain"], vars["token"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleVirtualPrice(w http.ResponseWriter, r *http.Request) {
	block, err := parseBlock(r)
	if err != nil {
		writeError(w, err)
		return
	}
	kind := config.PoolKind(r.URL.Query().Get("pool"))
	if kind == "" {
		kind = config.PoolNUSD
	}
	if kind != config.PoolNUSD && kind != config.PoolNETH {
		writeError(w, &query.ValidationError{
			Msg:    "invalid pool",
			Valids: []string{string(config.PoolNUSD), string(config.PoolNETH)},
		})
		return
	}
	price, err := s.svc.VirtualPrice(r.Context(), mux.Vars(r)["chain"], kind, block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"virtual_price": price})
}

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	block, err := parseBlock(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.svc.TreasuryBalances(r.Context(), mux.Vars(r)["chain"], block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleBridgeChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := s.svc.BridgeChart(r.Context(), vars["chain"], vars["direction"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleDateToBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := s.svc.DateToBlock(r.Context(), vars["chain"], vars["date"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleSyncing(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Syncing(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}
