package server

import (
	crand "crypto/rand"
	"encoding/binary"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/bughunt/backend/internal/engine"
)

type StartRequest struct {
	// CodeLanguage filters the problem pool; "all" (or empty) draws
	// from every language.
	CodeLanguage string `json:"codeLanguage"`
	UILanguage   string `json:"uiLanguage"`
}

type StartResponse struct {
	Token string        `json:"token"`
	State StateResponse `json:"state"`
}

func handleStart(logger *slog.Logger, store Store, sessions *Registry, game GameConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		codeLang := strings.TrimSpace(strings.ToLower(req.CodeLanguage))
		if codeLang == "" {
			codeLang = engine.LanguageAll
		}
		uiLang := strings.TrimSpace(strings.ToLower(req.UILanguage))
		if uiLang == "" {
			uiLang = "en"
		}

		// Each session gets its own generator so concurrent games
		// cannot influence each other's draws.
		rng := rand.New(rand.NewPCG(randomSeed(), randomSeed()))

		pool, err := engine.BuildPool(r.Context(), store, codeLang, game.PerLevel, rng)
		if err != nil {
			logger.Error("building problem pool", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		st := engine.NewState(pool, game.Engine)
		token := sessions.Start(st, uiLang, codeLang)

		logger.Info("session started",
			"code_language", codeLang,
			"pool_size", len(pool),
			"time_seconds", game.Engine.GameTimeSeconds,
		)

		writeJSON(w, http.StatusOK, StartResponse{
			Token: token,
			State: stateView(st, uiLang),
		})
	}
}

func randomSeed() uint64 {
	var b [8]byte
	crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
