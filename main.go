package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"dropby_server/middleware"
	"dropby_server/routes"
	"dropby_server/services"
	"dropby_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env if present (local development)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, relying on environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ JWT_SECRET is not set")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize S3 client for presigned photo URLs
	s3Client := services.InitializeS3Client()
	photoService := services.NewS3PhotoService(s3Client)

	// Repositories
	swipeRepo := &services.SwipeRepository{Dynamo: dynamoService}
	connectionRepo := &services.ConnectionRepository{Dynamo: dynamoService}
	chatRoomRepo := &services.ChatRoomRepository{Dynamo: dynamoService}
	locationRepo := &services.LocationRepository{Dynamo: dynamoService}
	userRepo := &services.UserRepository{Dynamo: dynamoService}

	// Services
	clock := services.SystemClock
	profileService := &services.UserProfileService{Users: userRepo, Photos: photoService}
	locationService := &services.LocationService{Locations: locationRepo, Directory: profileService, Clock: clock}
	connectionService := &services.ConnectionService{Connections: connectionRepo, Directory: profileService, Clock: clock}
	chatService := &services.ChatService{Rooms: chatRoomRepo, Connections: connectionRepo, Directory: profileService, Clock: clock}
	keyStore := services.NewMemoryKeyStore()

	// Realtime hub (also the notification transport)
	hub := socket.NewHub(chatService, []byte(secret))
	notificationService := &services.NotificationService{Deliverer: hub, Directory: profileService}

	swipeService := &services.SwipeService{
		Swipes:      swipeRepo,
		Directory:   profileService,
		Presence:    locationService,
		Connections: connectionService,
		Chat:        chatService,
		Notifier:    notificationService,
		Clock:       clock,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to DropBy")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the socket.io endpoint
	go func() {
		if err := hub.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer hub.Close()
	r.Handle("/socket.io/", hub.Server())

	// Register routes
	auth := middleware.Auth([]byte(secret))
	routes.RegisterSwipeRoutes(r, swipeService, auth)
	routes.RegisterLocationRoutes(r, locationService, auth)
	routes.RegisterConnectionRoutes(r, connectionService, auth)
	routes.RegisterChatRoutes(r, chatService, auth)
	routes.RegisterKeyRoutes(r, keyStore, chatService, auth)
	routes.RegisterUserProfileRoutes(r, profileService, auth)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
