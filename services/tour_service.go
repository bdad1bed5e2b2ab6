package services

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tours-server/models"
)

// TourService is the tour fetch layer: MongoDB is the source of truth,
// Redis mirrors every tour (hash per tour plus a geo set) for nearby
// queries.
type TourService struct {
	collection  *mongo.Collection
	Database    *mongo.Database // shared with the profiles store
	RedisClient *redis.Client
}

func NewTourService() *TourService {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	database := client.Database("tours_db")

	service := &TourService{
		collection: database.Collection("tours"),
		Database:   database,
	}

	// Initialize Redis client
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR environment variable is not set")
	}
	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		log.Fatal("REDIS_DB environment variable is not set")
	}
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		log.Fatalf("Invalid REDIS_DB value: %v", err)
	}
	service.RedisClient = redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   redisDB,
	})
	if err := service.RedisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Seed sample data if collection is empty
	count, err := service.collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		log.Fatalf("Failed to count documents: %v", err)
	}
	if count <= 0 {
		log.Println("No tours found in MongoDB, seeding sample data...")
		service.seedToursToMongo()
	}
	service.seedToursToRedis()

	return service
}

// ListTours returns every tour in stored order. This is the list the
// marker renderer consumes when no location filter applies.
func (s *TourService) ListTours(ctx context.Context) ([]models.Tour, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("Failed to load tours from MongoDB: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		log.Printf("Failed to decode tours from MongoDB: %v", err)
		return nil, err
	}
	return tours, nil
}

// FindNearbyTours queries the Redis geo set for tours within radius
// kilometers of the given point, closest first, optionally filtered by
// category.
func (s *TourService) FindNearbyTours(ctx context.Context, lat, lon, radius float64, category string) ([]models.Tour, error) {
	geoResults, err := s.RedisClient.GeoRadius(ctx, "tours:geo", lon, lat, &redis.GeoRadiusQuery{
		Radius:    radius,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
		Count:     50,
	}).Result()
	if err != nil {
		log.Printf("Redis GeoRadius error: %v", err)
		return nil, err
	}

	var results []models.Tour
	for _, geoResult := range geoResults {
		tourJSON, err := s.RedisClient.HGet(ctx, "tour:"+geoResult.Name, "data").Result()
		if err != nil {
			log.Printf("Redis Get error for tour %s: %v", geoResult.Name, err)
			continue
		}
		var tour models.Tour
		if err := json.Unmarshal([]byte(tourJSON), &tour); err != nil {
			log.Printf("Failed to unmarshal tour %s: %v", geoResult.Name, err)
			continue
		}
		if category != "" && tour.Category != category {
			continue
		}
		results = append(results, tour)
	}

	log.Printf("Found %d tours within %f km", len(results), radius)
	return results, nil
}

// seedToursToRedis mirrors the Mongo collection into Redis.
func (s *TourService) seedToursToRedis() {
	ctx := context.Background()
	if err := s.RedisClient.FlushDB(ctx).Err(); err != nil {
		log.Printf("Failed to flush Redis DB: %v", err)
		return
	}
	log.Println("Seeding tours into Redis...")

	tours, err := s.ListTours(ctx)
	if err != nil {
		return
	}
	for _, tour := range tours {
		tourJSON, err := json.Marshal(tour)
		if err != nil {
			log.Printf("Failed to marshal tour %s: %v", tour.Name, err)
			continue
		}
		if err := s.RedisClient.HSet(ctx, "tour:"+tour.ID, "data", tourJSON).Err(); err != nil {
			log.Printf("Failed to set tour %s in Redis: %v", tour.Name, err)
			continue
		}
		// Tours without coordinates stay out of the geo set.
		if !tour.HasCoordinates() {
			continue
		}
		err = s.RedisClient.GeoAdd(ctx, "tours:geo", &redis.GeoLocation{
			Name:      tour.ID,
			Longitude: *tour.Longitude,
			Latitude:  *tour.Latitude,
		}).Err()
		if err != nil {
			log.Printf("Failed to add tour %s to Redis geo set: %v", tour.Name, err)
			continue
		}
	}
	log.Printf("Seeded %d tours into Redis", len(tours))
}

func (s *TourService) seedToursToMongo() {
	seedFile := os.Getenv("TOURS_SEED_FILE")
	if seedFile == "" {
		seedFile = "./data/tours.json"
	}
	file, err := os.Open(seedFile)
	if err != nil {
		log.Fatalf("Failed to open tours seed file: %v", err)
		return
	}
	defer file.Close()

	var tours []models.Tour
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&tours); err != nil {
		log.Fatalf("Failed to decode tours JSON: %v", err)
		return
	}

	log.Printf("Seeding %d tours into MongoDB...", len(tours))

	var docs []any
	for _, tour := range tours {
		if tour.ID == "" {
			tour.ID = uuid.New().String()
		}
		docs = append(docs, tour)
	}

	result, err := s.collection.InsertMany(context.Background(), docs)
	if err != nil {
		log.Fatalf("Failed to seed tours: %v", err)
	}
	log.Printf("Inserted %d tours into MongoDB", len(result.InsertedIDs))
}
