package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/largestbanks/provider/currencies"
	"github.com/sig-0/largestbanks/storage/types"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

var (
	errUnableToFetchBanks = errors.New("unable to fetch banks")
	errBankNotFound       = errors.New("bank not found")

	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
	errInvalidRank   = errors.New("invalid rank")
)

// Health reports whether the report table is readable
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	banks, err := s.storage.ListBanks(r.Context())
	if err != nil {
		s.logger.Warn(
			"report table unavailable",
			"err", err,
		)

		writeError(w, http.StatusServiceUnavailable, errUnableToFetchBanks)

		return
	}

	writeJSON(w, http.StatusOK, &HealthResponse{
		Status: "ok",
		Banks:  len(banks),
	})
}

// Banks lists the ranked report, paginated
func (s *Server) Banks(w http.ResponseWriter, r *http.Request) {
	var (
		limitParam  = r.URL.Query().Get("limit")
		offsetParam = r.URL.Query().Get("offset")
	)

	// Parse the pagination settings
	limit, offset, err := parseLimitOffset(limitParam, offsetParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	banks, err := s.storage.ListBanks(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch banks",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchBanks,
		)

		return
	}

	page := &types.Page[*BankResponse]{
		Results: make([]*BankResponse, 0, limit),
		Total:   int64(len(banks)),
	}

	for i := offset; i < len(banks) && i < offset+limit; i++ {
		page.Results = append(page.Results, &BankResponse{
			EnrichedBank: banks[i],
			Rank:         i + 1,
		})
	}

	writeJSON(w, http.StatusOK, page)
}

// BankByRank fetches a single report entry by its 1-based rank
func (s *Server) BankByRank(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil || rank < 1 {
		writeError(w, http.StatusBadRequest, errInvalidRank)

		return
	}

	banks, err := s.storage.ListBanks(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch banks",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchBanks,
		)

		return
	}

	if rank > len(banks) {
		writeError(w, http.StatusNotFound, errBankNotFound)

		return
	}

	writeJSON(w, http.StatusOK, &BankResponse{
		EnrichedBank: banks[rank-1],
		Rank:         rank,
	})
}

// Currencies lists the currencies the report is expressed in
func (s *Server) Currencies(w http.ResponseWriter, _ *http.Request) {
	resp := &CurrenciesResponse{
		Results: append([]types.Currency{currencies.USD}, currencies.Required()...),
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseLimitOffset(limitRaw, offsetRaw string) (int, int, error) {
	limit := defaultLimit

	if v := strings.TrimSpace(limitRaw); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxLimit {
			return 0, 0, errInvalidLimit
		}

		limit = parsed
	}

	var offset int

	if v := strings.TrimSpace(offsetRaw); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return 0, 0, errInvalidOffset
		}

		offset = parsed
	}

	return limit, offset, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
