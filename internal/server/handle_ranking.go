package server

import (
	"net/http"
	"strconv"
)

type RankingResponse struct {
	Entries []ScoreRecord `json:"entries"`
}

func handleRanking(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				writeError(w, http.StatusBadRequest, "limit must be 1-100")
				return
			}
			limit = n
		}

		entries, err := store.TopScores(r.Context(), r.URL.Query().Get("language"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []ScoreRecord{}
		}
		writeJSON(w, http.StatusOK, RankingResponse{Entries: entries})
	}
}
