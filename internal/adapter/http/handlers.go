package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/simaogato/walletfolio-backend/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "walletfolio",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// decodeJSON decodes a request body, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathUUID parses a UUID from a chi URL parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// ownedWallet loads the wallet from the walletID path parameter, scoped
// to the authenticated user. Writes the error response itself and
// returns nil when the wallet cannot be served.
func (s *Server) ownedWallet(w http.ResponseWriter, r *http.Request) *domain.Wallet {
	walletID, err := pathUUID(r, "walletID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid wallet id")
		return nil
	}

	wallet, err := s.walletRepo.GetForUser(r.Context(), walletID, userFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "wallet not found")
			return nil
		}
		s.log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to load wallet")
		s.writeError(w, http.StatusInternalServerError, "failed to load wallet")
		return nil
	}

	return wallet
}
