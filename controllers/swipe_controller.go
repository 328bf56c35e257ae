package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"emberly_server/models"
	"emberly_server/services"
)

// SwipeController handles swipe actions, undo, and history.
type SwipeController struct {
	SwipeService *services.SwipeService
	DeckService  *services.DeckService
}

// NewSwipeController initializes the controller
func NewSwipeController(swipeService *services.SwipeService, deckService *services.DeckService) *SwipeController {
	return &SwipeController{SwipeService: swipeService, DeckService: deckService}
}

type swipeRequest struct {
	UserID   string                `json:"userId"`
	TargetID string                `json:"targetId"`
	Metadata *models.SwipeMetadata `json:"metadata,omitempty"`
}

// HandleLike - user swipes right on a candidate
func (c *SwipeController) HandleLike(w http.ResponseWriter, r *http.Request) {
	c.handleSwipe(w, r, models.SwipeKindLike)
}

// HandlePass - user swipes left on a candidate
func (c *SwipeController) HandlePass(w http.ResponseWriter, r *http.Request) {
	c.handleSwipe(w, r, models.SwipeKindPass)
}

// HandleSuperlike - user swipes up on a candidate
func (c *SwipeController) HandleSuperlike(w http.ResponseWriter, r *http.Request) {
	c.handleSwipe(w, r, models.SwipeKindSuperlike)
}

// handleSwipe routes the action through the deck session when one is
// mounted, so the candidate leaves the in-memory deck only after the write
// succeeded. Without a session it records the swipe directly.
func (c *SwipeController) handleSwipe(w http.ResponseWriter, r *http.Request, kind string) {
	var request swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("%s: %s -> %s", kind, request.UserID, request.TargetID)

	session, mounted := c.DeckService.MountedSession(request.UserID)

	var err error
	if mounted {
		switch kind {
		case models.SwipeKindLike:
			err = session.Like(r.Context(), request.TargetID)
		case models.SwipeKindPass:
			err = session.Pass(r.Context(), request.TargetID)
		case models.SwipeKindSuperlike:
			err = session.Superlike(r.Context(), request.TargetID)
		}
	} else {
		switch kind {
		case models.SwipeKindLike:
			_, err = c.SwipeService.Like(r.Context(), request.UserID, request.TargetID, request.Metadata)
		case models.SwipeKindPass:
			_, err = c.SwipeService.Pass(r.Context(), request.UserID, request.TargetID, request.Metadata)
		case models.SwipeKindSuperlike:
			_, err = c.SwipeService.Superlike(r.Context(), request.UserID, request.TargetID, request.Metadata)
		}
	}

	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, `{"error": "Invalid swipe request"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error": "Failed to record swipe"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Swipe recorded"})
}

// HandleUndo removes the user's most recent swipe. With no history it
// succeeds as a no-op.
func (c *SwipeController) HandleUndo(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	undone, err := c.SwipeService.Undo(r.Context(), request.UserID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, `{"error": "Invalid undo request"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error": "Failed to undo swipe"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if undone == nil {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Nothing to undo"})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "undone": undone})
}

// HandleGetHistory returns the user's recent swipes, newest first.
func (c *SwipeController) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, `{"error": "Invalid limit"}`, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := c.SwipeService.GetSwipeHistory(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, `{"error": "Invalid history request"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error": "Failed to fetch history"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
