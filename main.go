package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"emberly_server/config"
	"emberly_server/routes"
	"emberly_server/services"
	"emberly_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Seen cache is optional; without Redis the deck falls back to
	// session-only exclusion.
	seenCache := services.NewSeenCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if seenCache == nil {
		log.Println("Seen cache disabled (no REDIS_ADDR).")
	}

	// Socket.IO server for realtime match notifications
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server stopped: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	candidateService := &services.CandidateService{Dynamo: dynamoService}
	swipeService := &services.SwipeService{Dynamo: dynamoService, Seen: seenCache}
	matchService := &services.MatchService{
		Dynamo:   dynamoService,
		Notifier: &socket.MatchBroadcaster{Server: socketServer},
	}
	deckService := services.NewDeckService(candidateService, swipeService, matchService, seenCache)

	s3Service, err := services.NewS3Service(cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Emberly")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterDeckRoutes(r, deckService, userProfileService)
	routes.RegisterSwipeRoutes(r, swipeService, deckService)
	routes.RegisterS3Routes(r, s3Service)

	// Mount the socket endpoint
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
