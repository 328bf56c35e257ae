package routes

import (
	"emberly_server/controllers"
	"emberly_server/services"

	"github.com/gorilla/mux"
)

// RegisterDeckRoutes sets up routes for the swipe deck under /api/deck
func RegisterDeckRoutes(r *mux.Router, deckService *services.DeckService, userProfileService *services.UserProfileService) {
	controller := controllers.NewDeckController(deckService, userProfileService)

	deckRouter := r.PathPrefix("/api/deck").Subrouter()
	deckRouter.HandleFunc("/{userId}", controller.HandleGetDeck).Methods("GET")
	deckRouter.HandleFunc("/{userId}/refresh", controller.HandleRefreshDeck).Methods("POST")
	deckRouter.HandleFunc("/{userId}", controller.HandleCloseDeck).Methods("DELETE")
}
