package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/trapmaze/api"
	gameapi "github.com/beka-birhanu/trapmaze/api/game"
	api_i "github.com/beka-birhanu/trapmaze/api/i"
	"github.com/beka-birhanu/trapmaze/config"
	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/game/maze"
	"github.com/beka-birhanu/trapmaze/infrastruture/memory"
	"github.com/beka-birhanu/trapmaze/infrastruture/redisstore"
	"github.com/beka-birhanu/trapmaze/infrastruture/repo"
	"github.com/beka-birhanu/trapmaze/logger"
	"github.com/beka-birhanu/trapmaze/service"
	"github.com/beka-birhanu/trapmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	envs               config.Config
	mazeMap            *maze.Map
	redisClient        *redis.Client
	mongoClient        *mongo.Client
	locker             i.Locker
	contactStore       i.ContactStore
	resultRepo         i.ResultRepo
	eventHub           *gameapi.EventHub
	gameSessionManager *service.GameSessionManager
	gameController     api_i.Controller
	router             *api.Router
	appLogger          *log.Entry
)

func newLogger(component string) *log.Entry {
	l, err := logger.New(component, envs.LogLevel, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", component, err)
		os.Exit(1)
	}
	return l
}

func initMaze() {
	var err error
	mazeMap, err = maze.Load(envs.MazePath)
	if err != nil {
		appLogger.Errorf("Loading maze %s: %v", envs.MazePath, err)
		os.Exit(1)
	}
	appLogger.Infof("Loaded %dx%d maze from %s", mazeMap.Width(), mazeMap.Height(), envs.MazePath)
}

func initRedis(ctx context.Context) {
	if envs.RedisAddr == "" {
		locker = memory.NewLocker()
		contactStore = memory.NewContactStore()
		appLogger.Info("REDIS_ADDR not set, using in-memory locks and contact store")
		return
	}

	redisClient = redis.NewClient(&redis.Options{Addr: envs.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Errorf("Redis ping failed: %v", err)
		os.Exit(1)
	}
	idle := time.Duration(envs.IdleTimeoutSeconds) * time.Second
	locker = redisstore.NewLocker(redisClient, 10*time.Second)
	contactStore = redisstore.NewContactStore(redisClient, "", 2*idle)
	appLogger.Info("Connected to Redis")
}

func initMongo(ctx context.Context) {
	if envs.MongoURI == "" {
		resultRepo = memory.NewResultRepo()
		appLogger.Info("MONGO_URI not set, keeping results in memory")
		return
	}

	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(envs.MongoURI))
	if err != nil {
		appLogger.Errorf("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Errorf("MongoDB ping failed: %v", err)
		os.Exit(1)
	}
	resultRepo = repo.NewResultRepo(mongoClient, envs.DBName, "results")
	appLogger.Info("Connected to MongoDB")
}

func initSessionManager() {
	var err error
	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Maze:     mazeMap,
		MazeFile: filepath.Base(envs.MazePath),
		Game: game.Config{
			MaxRedirects:   envs.MaxRedirects,
			DisguiseRadius: envs.DisguiseRadius,
		},
		Friendly:    envs.FriendlyMode,
		IdleTimeout: time.Duration(envs.IdleTimeoutSeconds) * time.Second,
		Locker:      locker,
		Contacts:    contactStore,
		Results:     resultRepo,
		Events:      eventHub,
		Logger:      newLogger(config.LogSessionManager),
	})
	if err != nil {
		appLogger.Errorf("Creating session manager: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initGameController() {
	var err error
	gameController, err = gameapi.NewGameController(gameSessionManager, resultRepo, eventHub)
	if err != nil {
		appLogger.Errorf("Creating game controller: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Game controller initialized")
}

func initRouter() {
	gin.SetMode(envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{gameController},
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	envs = config.Server()
	appLogger = newLogger(config.LogApp)

	initMaze()
	initRedis(ctx)
	initMongo(ctx)
	defer func() {
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	eventHub = gameapi.NewEventHub(newLogger(config.LogEvents))
	initSessionManager()
	initGameController()
	initRouter()

	appLogger.Infof("Listening on %s:%d (friendly mode: %v)", envs.HostIP, envs.RESTPort, envs.FriendlyMode)
	if err := router.Run(); err != nil {
		appLogger.Errorf("Starting server: %v", err)
		os.Exit(1)
	}
}
