package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

var (
	errUnableToFetchSnapshots = errors.New("unable to fetch snapshots")
	errUnableToFetchLeagues   = errors.New("unable to fetch leagues")

	errSnapshotNotFound = errors.New("no snapshot collected for league")
	errBundleNotFound   = errors.New("pair not collected in latest snapshot")

	errInvalidLeague = errors.New("invalid league")
	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

func (s *Server) Currencies(w http.ResponseWriter, _ *http.Request) {
	items := lo.Map(s.catalog.List(), func(c currencies.Currency, _ int) CurrencyInfo {
		return CurrencyInfo{
			Name: c.Name,
			ID:   c.ID,
			Tier: c.Tier,
		}
	})

	writeJSON(w, http.StatusOK, &CurrenciesResponse{
		Results: items,
	})
}

func (s *Server) Leagues(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListLeagues(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch leagues",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchLeagues,
		)

		return
	}

	if items == nil {
		items = []string{}
	}

	writeJSON(w, http.StatusOK, &LeaguesResponse{
		Results: items,
	})
}

func (s *Server) Snapshots(w http.ResponseWriter, r *http.Request) {
	var (
		leagueParam = chi.URLParam(r, "league")
		limitParam  = r.URL.Query().Get("limit")
		offsetParam = r.URL.Query().Get("offset")
	)

	league, err := parseLeague(leagueParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the pagination settings
	limit, offset, err := parseLimitOffset(limitParam, offsetParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	q := &types.SnapshotQuery{
		League: league,
		Limit:  limit,
		Offset: offset,
	}

	page, err := s.storage.ListSnapshots(r.Context(), q)
	if err != nil {
		s.logger.Debug(
			"unable to fetch snapshots",
			"league", league,
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSnapshots,
		)

		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	league, err := parseLeague(chi.URLParam(r, "league"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	snapshot, ok := s.latest(w, r, league)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) Offers(w http.ResponseWriter, r *http.Request) {
	var (
		leagueParam = chi.URLParam(r, "league")
		wantParam   = chi.URLParam(r, "want")
		haveParam   = chi.URLParam(r, "have")
	)

	league, err := parseLeague(leagueParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Resolve both currencies
	want, err := s.parseCurrency(wantParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	have, err := s.parseCurrency(haveParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	snapshot, ok := s.latest(w, r, league)
	if !ok {
		return
	}

	bundle := snapshot.Bundle(types.Pair{
		Want: want.Name,
		Have: have.Name,
	})
	if bundle == nil {
		writeError(w, http.StatusNotFound, errBundleNotFound)

		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// latest fetches the latest league snapshot, writing the error response if
// it cannot be served
func (s *Server) latest(
	w http.ResponseWriter,
	r *http.Request,
	league string,
) (*types.Snapshot, bool) {
	snapshot, err := s.storage.LatestSnapshot(r.Context(), league)
	if err != nil {
		s.logger.Debug(
			"unable to fetch latest snapshot",
			"league", league,
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSnapshots,
		)

		return nil, false
	}

	if snapshot == nil {
		writeError(w, http.StatusNotFound, errSnapshotNotFound)

		return nil, false
	}

	return snapshot, true
}

func (s *Server) parseCurrency(raw string) (currencies.Currency, error) {
	name, err := url.PathUnescape(strings.TrimSpace(raw))
	if err != nil {
		return currencies.Currency{}, err
	}

	return s.catalog.Lookup(types.Currency(name))
}

func parseLeague(raw string) (string, error) {
	league, err := url.PathUnescape(strings.TrimSpace(raw))
	if err != nil || strings.TrimSpace(league) == "" {
		return "", errInvalidLeague
	}

	return league, nil
}

func parseLimitOffset(limitRaw, offsetRaw string) (int32, int64, error) {
	limit := types.DefaultLimit

	if v := strings.TrimSpace(limitRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return 0, 0, errInvalidLimit
		}

		limit = int32(n)
	}

	if limit == 0 {
		limit = types.DefaultLimit
	}

	if limit > types.MaxLimit {
		limit = types.MaxLimit
	}

	var offset int64

	if v := strings.TrimSpace(offsetRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return 0, 0, errInvalidOffset
		}

		offset = n
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
