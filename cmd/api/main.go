// @title           Document Chat API
// @version         1.0
// @description     This API answers questions about ingested documents with streamed chat responses
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/data/store"
	"github.com/akolanti/docchat/internal/domain/docModel"
	jobmodel "github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/handlers"
	"github.com/akolanti/docchat/internal/job"
	"github.com/akolanti/docchat/internal/qa"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/internal/qa/generate/gemini"
	"github.com/akolanti/docchat/internal/qa/generate/local"
	"github.com/akolanti/docchat/internal/qa/generate/openai"
	"github.com/akolanti/docchat/internal/server"
	"github.com/akolanti/docchat/internal/worker"
	"github.com/akolanti/docchat/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	redisDocuments := store.GetRedisDocumentStore(serviceContext)
	logger.Info("Starting job service")

	var documents docModel.DocumentStore = redisDocuments
	if serviceConfig.JobStore == nil || redisDocuments == nil {
		logger.Error("Redis stores are offline, falling back to in-memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		documents = store.InitInMemoryDocumentStore()
	}
	service := job.InitJobService(serviceConfig)

	generator := buildGenerator(serviceContext, logger)
	if generator == nil {
		logger.Error("Generation backend failed to initialize. Shutting down.")
		return
	}

	qaService := qa.NewService(generator, documents)

	handlers.InitJobHandler(service, qaService, documents)

	//init worker pool
	worker.InitServices(service, qaService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildGenerator picks the generation backend once at startup. The rest of
// the system only ever sees the generate.Generator interface.
func buildGenerator(ctx context.Context, logger *logger_i.Logger) generate.Generator {
	provider := os.Getenv("QA_PROVIDER")
	if provider == "" {
		provider = config.DefaultProvider
	}

	switch provider {
	case config.ProviderLocal:
		baseURL := os.Getenv("LOCAL_MODEL_URL")
		if baseURL == "" {
			baseURL = config.LocalBaseURL
		}
		runtime := local.NewLlamaRuntime(baseURL, config.LocalModelName)
		backend := local.NewBackend(runtime, config.ModelTemperature)

		logger.Info("Loading local model", "baseURL", baseURL)
		loadCtx, cancel := context.WithTimeout(ctx, config.LocalLoadTimeout)
		defer cancel()
		err := backend.Initialize(loadCtx, func(percent int) {
			logger.Info("Model loading", "percent", percent)
		})
		if err != nil {
			logger.Error("Local model failed to load", "error", err)
			return nil
		}
		return backend

	case config.ProviderGemini:
		backend, err := gemini.NewBackend(ctx, generate.Config{
			Provider:    provider,
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       config.GeminiModelName,
			Temperature: config.ModelTemperature,
		})
		if err != nil {
			logger.Error("Gemini backend failed to initialize", "error", err)
			return nil
		}
		return backend

	case config.ProviderOpenAI:
		return openai.NewBackend(generate.Config{
			Provider:    provider,
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     config.OpenAIBaseURL,
			Model:       config.OpenAIModelName,
			Temperature: config.ModelTemperature,
		})

	default:
		logger.Error("Unknown provider", "provider", provider)
		return nil
	}
}
