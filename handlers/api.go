package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"modmail/services"
)

// APIHandler exposes a read-only HTTP view over thread and snippet data for
// dashboards and tooling.
type APIHandler struct {
	threadsService       services.ThreadsService
	snippetsService      services.SnippetsService
	guildSettingsService services.GuildSettingsService
}

func NewAPIHandler(
	threadsService services.ThreadsService,
	snippetsService services.SnippetsService,
	guildSettingsService services.GuildSettingsService,
) *APIHandler {
	return &APIHandler{
		threadsService:       threadsService,
		snippetsService:      snippetsService,
		guildSettingsService: guildSettingsService,
	}
}

func (h *APIHandler) HandleListThreads(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List threads request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	guildID := vars["guildID"]

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		threads, err := h.threadsService.ListThreadsByUser(r.Context(), guildID, userID)
		if err != nil {
			log.Printf("❌ Failed to list threads for user %s: %v", userID, err)
			http.Error(w, "failed to list threads", http.StatusInternalServerError)
			return
		}
		h.writeJSONResponse(w, http.StatusOK, threads)
		return
	}

	threads, err := h.threadsService.ListThreadsByGuild(r.Context(), guildID)
	if err != nil {
		log.Printf("❌ Failed to list threads for guild %s: %v", guildID, err)
		http.Error(w, "failed to list threads", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, threads)
}

func (h *APIHandler) HandleListSnippets(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List snippets request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	guildID := vars["guildID"]

	snippets, err := h.snippetsService.ListSnippetsByGuild(r.Context(), guildID)
	if err != nil {
		log.Printf("❌ Failed to list snippets for guild %s: %v", guildID, err)
		http.Error(w, "failed to list snippets", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, snippets)
}

func (h *APIHandler) HandleGetGuildSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get guild settings request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	guildID := vars["guildID"]

	maybeSettings, err := h.guildSettingsService.GetGuildSettings(r.Context(), guildID)
	if err != nil {
		log.Printf("❌ Failed to get guild settings for guild %s: %v", guildID, err)
		http.Error(w, "failed to get guild settings", http.StatusInternalServerError)
		return
	}
	if !maybeSettings.IsPresent() {
		http.Error(w, "guild settings not found", http.StatusNotFound)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, maybeSettings.MustGet())
}

func (h *APIHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering API endpoints")

	router.HandleFunc("/guilds/{guildID}/threads", h.HandleListThreads).Methods("GET")
	log.Printf("✅ GET /guilds/{guildID}/threads endpoint registered")

	router.HandleFunc("/guilds/{guildID}/snippets", h.HandleListSnippets).Methods("GET")
	log.Printf("✅ GET /guilds/{guildID}/snippets endpoint registered")

	router.HandleFunc("/guilds/{guildID}/settings", h.HandleGetGuildSettings).Methods("GET")
	log.Printf("✅ GET /guilds/{guildID}/settings endpoint registered")
}

func (h *APIHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
