package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "BugHunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for BugHunt, the timed code-review game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a game session")
	postStart.SetDescription("Draws a problem pool for the chosen code language and starts the countdown. Returns the session token.")
	postStart.AddReqStructure(StartRequest{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// POST /api/game/tap
	postTap, _ := r.NewOperationContext(http.MethodPost, "/api/game/tap")
	postTap.SetSummary("Tap a line")
	postTap.SetDescription("Marks a line of the current problem. A line covering an unfound issue scores; anything else is a miss. Requires Bearer token.")
	postTap.AddReqStructure(TapRequest{})
	postTap.AddRespStructure(TapResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postTap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTap)

	// POST /api/game/skip
	postSkip, _ := r.NewOperationContext(http.MethodPost, "/api/game/skip")
	postSkip.SetSummary("Skip to the next problem")
	postSkip.SetDescription("Leaves the current problem, paying the all-found bonus when earned. Ends the session when the pool is exhausted. Requires Bearer token.")
	postSkip.AddRespStructure(SkipResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSkip)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the full session state. Requires Bearer token.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// GET /api/game/result
	getResult, _ := r.NewOperationContext(http.MethodGet, "/api/game/result")
	getResult.SetSummary("Get session result")
	getResult.SetDescription("Returns the end-of-session summary once the game ended, persisting the score record on first call. Requires Bearer token.")
	getResult.AddRespStructure(ResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResult.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	getResult.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getResult)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of ticks, taps, problem changes and game end. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/game
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/game")
	getWS.SetSummary("WebSocket event feed")
	getWS.SetDescription("Upgrades to a WebSocket carrying the same events as the SSE stream. Pass token as query parameter.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/ranking
	getRanking, _ := r.NewOperationContext(http.MethodGet, "/api/ranking")
	getRanking.SetSummary("Top scores")
	getRanking.SetDescription("Returns the highest persisted scores, optionally filtered by code language.")
	getRanking.AddRespStructure(RankingResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRanking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getRanking)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/problems
	listProblems, _ := r.NewOperationContext(http.MethodGet, "/api/admin/problems")
	listProblems.SetSummary("List problems")
	listProblems.AddRespStructure([]ProblemSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listProblems.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listProblems)

	// POST /api/admin/problems
	createProblem, _ := r.NewOperationContext(http.MethodPost, "/api/admin/problems")
	createProblem.SetSummary("Create problem")
	createProblem.AddReqStructure(AdminProblemRequest{})
	createProblem.AddRespStructure(AdminProblemDetail{}, openapi.WithHTTPStatus(http.StatusCreated))
	createProblem.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createProblem)

	// GET /api/admin/problems/{id}
	getProblem, _ := r.NewOperationContext(http.MethodGet, "/api/admin/problems/{id}")
	getProblem.SetSummary("Get problem")
	getProblem.AddRespStructure(AdminProblemDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getProblem.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getProblem)

	// PUT /api/admin/problems/{id}
	updateProblem, _ := r.NewOperationContext(http.MethodPut, "/api/admin/problems/{id}")
	updateProblem.SetSummary("Update problem")
	updateProblem.AddReqStructure(AdminProblemRequest{})
	updateProblem.AddRespStructure(AdminProblemDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	updateProblem.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateProblem)

	// DELETE /api/admin/problems/{id}
	deleteProblem, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/problems/{id}")
	deleteProblem.SetSummary("Delete problem")
	deleteProblem.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteProblem.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteProblem)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
