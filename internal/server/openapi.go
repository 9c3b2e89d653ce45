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
	r.Spec.Info.Title = "EmberQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Server-authoritative backend for the EmberQuest city exploration game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/session")
	postSession.SetSummary("Start a session")
	postSession.SetDescription("Starts a new attempt at a scenario and returns a session token plus the quest log.")
	postSession.AddReqStructure(StartSessionRequest{})
	postSession.AddRespStructure(StartSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSession)

	// DELETE /api/session
	delSession, _ := r.NewOperationContext(http.MethodDelete, "/api/session")
	delSession.SetSummary("Abandon the session")
	delSession.SetDescription("Ends the attempt, records its outcome, and frees the session. Requires Bearer token.")
	delSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	delSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(delSession)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns a full snapshot of the session's state machine. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// GET /api/game/quests
	getQuests, _ := r.NewOperationContext(http.MethodGet, "/api/game/quests")
	getQuests.SetSummary("Quest log")
	getQuests.SetDescription("Lists every quest with its status, in registry order. Requires Bearer token.")
	getQuests.AddRespStructure([]QuestInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuests.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getQuests)

	// POST /api/game/position
	postPosition, _ := r.NewOperationContext(http.MethodPost, "/api/game/position")
	postPosition.SetSummary("Position tick")
	postPosition.SetDescription("Reports the player's world position for one render frame; returns the resulting effects. Requires Bearer token.")
	postPosition.AddReqStructure(PositionRequest{})
	postPosition.AddRespStructure(TickResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPosition.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postPosition)

	// POST /api/game/event
	postEvent, _ := r.NewOperationContext(http.MethodPost, "/api/game/event")
	postEvent.SetSummary("Dispatch UI event")
	postEvent.SetDescription("Feeds a UI callback (modal dismissed, phone answered, map toggled) into the state machine. Requires Bearer token.")
	postEvent.AddReqStructure(GameEventRequest{})
	postEvent.AddRespStructure(TickResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postEvent)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE effect stream")
	getEvents.SetDescription("Server-Sent Events stream of game effects for the HUD and audio layers. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/game
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/game")
	getWS.SetSummary("WebSocket game stream")
	getWS.SetDescription("Upgrades to a WebSocket: position frames in, effect batches out. Pass token as query parameter.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

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
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/scenarios
	listScenarios, _ := r.NewOperationContext(http.MethodGet, "/api/admin/scenarios")
	listScenarios.SetSummary("List scenarios")
	listScenarios.SetDescription("Returns all scenarios with quest counts. Requires admin_session cookie.")
	listScenarios.AddRespStructure([]ScenarioSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listScenarios.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listScenarios)

	// POST /api/admin/scenarios
	createScenario, _ := r.NewOperationContext(http.MethodPost, "/api/admin/scenarios")
	createScenario.SetSummary("Create scenario")
	createScenario.SetDescription("Creates a new scenario with quests and fire points. Requires admin_session cookie.")
	createScenario.AddReqStructure(ScenarioRequest{})
	createScenario.AddRespStructure(Scenario{}, openapi.WithHTTPStatus(http.StatusCreated))
	createScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createScenario)

	// GET /api/admin/scenarios/{id}
	getScenario, _ := r.NewOperationContext(http.MethodGet, "/api/admin/scenarios/{id}")
	getScenario.SetSummary("Get scenario")
	getScenario.AddRespStructure(Scenario{}, openapi.WithHTTPStatus(http.StatusOK))
	getScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScenario)

	// PUT /api/admin/scenarios/{id}
	putScenario, _ := r.NewOperationContext(http.MethodPut, "/api/admin/scenarios/{id}")
	putScenario.SetSummary("Update scenario")
	putScenario.AddReqStructure(ScenarioRequest{})
	putScenario.AddRespStructure(Scenario{}, openapi.WithHTTPStatus(http.StatusOK))
	putScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putScenario)

	// DELETE /api/admin/scenarios/{id}
	delScenario, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/scenarios/{id}")
	delScenario.SetSummary("Delete scenario")
	delScenario.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	delScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	delScenario.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(delScenario)

	// GET /api/admin/attempts
	listAttempts, _ := r.NewOperationContext(http.MethodGet, "/api/admin/attempts")
	listAttempts.SetSummary("List attempts")
	listAttempts.SetDescription("Returns recorded attempt outcomes, newest first. Requires admin_session cookie.")
	listAttempts.AddRespStructure([]AttemptRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	listAttempts.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listAttempts)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
