package routes

import (
	"emberly_server/controllers"
	"emberly_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for swipe operations under /api/swipes
func RegisterSwipeRoutes(r *mux.Router, swipeService *services.SwipeService, deckService *services.DeckService) {
	controller := controllers.NewSwipeController(swipeService, deckService)

	swipeRouter := r.PathPrefix("/api/swipes").Subrouter()
	swipeRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	swipeRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	swipeRouter.HandleFunc("/superlike", controller.HandleSuperlike).Methods("POST")
	swipeRouter.HandleFunc("/undo", controller.HandleUndo).Methods("POST")
	swipeRouter.HandleFunc("/history", controller.HandleGetHistory).Methods("GET")
}
