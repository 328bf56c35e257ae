package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"emberly_server/services"

	"github.com/gorilla/mux"
)

// DeckController exposes the swipe deck view-model over HTTP. It is a thin
// adapter: all state lives in the DeckService session.
type DeckController struct {
	DeckService        *services.DeckService
	UserProfileService *services.UserProfileService
}

// NewDeckController initializes the controller
func NewDeckController(deckService *services.DeckService, userProfileService *services.UserProfileService) *DeckController {
	return &DeckController{DeckService: deckService, UserProfileService: userProfileService}
}

// HandleGetDeck returns the current deck state for a user, mounting and
// loading a session on first call.
func (c *DeckController) HandleGetDeck(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	session, fresh, err := c.mountSession(r, userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	if fresh {
		if err := session.Refresh(r.Context()); err != nil {
			log.Printf("Initial deck load failed for %s: %v", userID, err)
			// The state below carries the user-facing error; the screen
			// still renders.
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.State())
}

// HandleRefreshDeck reloads the deck from scratch.
func (c *DeckController) HandleRefreshDeck(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	session, _, err := c.mountSession(r, userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	if err := session.Refresh(r.Context()); err != nil {
		log.Printf("Deck refresh failed for %s: %v", userID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.State())
}

// HandleCloseDeck unmounts a user's deck session.
func (c *DeckController) HandleCloseDeck(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	c.DeckService.Close(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Deck session closed"})
}

// mountSession resolves the current user and returns their deck session.
// fresh reports whether the session was created by this call.
func (c *DeckController) mountSession(r *http.Request, userID string) (*services.DeckSession, bool, error) {
	if userID == "" {
		return nil, false, services.ErrInvalidInput
	}

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return nil, false, err
	}

	// A missing profile still gets a deck with default preferences; the
	// auth collaborator's user object is treated as fully optional.
	session := services.SessionFromProfile(profile)
	session.UserID = userID

	mounted, created := c.DeckService.Session(session)
	return mounted, created, nil
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrInvalidInput) {
		http.Error(w, `{"error": "Invalid request"}`, http.StatusBadRequest)
		return
	}
	http.Error(w, `{"error": "Failed to load deck"}`, http.StatusInternalServerError)
}
