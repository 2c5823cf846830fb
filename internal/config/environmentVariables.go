package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //set to false once a real token is provisioned
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//retrieval core
	MaxChunkSize     = 1000 //characters per chunk
	TopChunkCount    = 3    //chunks injected into the prompt
	MinKeywordLength = 4    //words shorter than this carry no ranking signal

	//conversation history (entries, not pairs)
	HistoryWindow = 6  //entries injected into the prompt
	HistoryLimit  = 10 //entries retained, oldest evicted first

	//generation providers
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
	ProviderGemini = "gemini"

	DefaultProvider = ProviderOpenAI

	OpenAIBaseURL   = "https://api.openai.com/v1"
	OpenAIModelName = "gpt-4o-mini"

	LocalBaseURL     = "http://127.0.0.1:8080/v1"
	LocalModelName   = "llama-3.1-8b-instruct"
	LocalLoadTimeout = 2 * time.Minute

	GeminiModelName = "gemini-2.5-flash-lite-preview-09-2025"

	ModelTemperature = 0.7

	//content fed to a single summary/topics request is capped per provider,
	//roomier for hosted models than for the local runtime
	RemoteSummaryContentLimit = 24000
	RemoteTopicsContentLimit  = 12000
	LocalSummaryContentLimit  = 8000
	LocalTopicsContentLimit   = 4000

	GenerationTimeout = 120 * time.Second

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts - WriteTimeout is generous because /chat streams
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 180 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//ingestion
	PageFetchTimeout   = 30 * time.Second
	PageExtractTimeout = 10 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	RedisJobStoreTTL      = 24 * time.Hour
	RedisDocumentStoreTTL = 0 //documents live until deleted
)

// Stopwords is the closed set of function words the keyword extractor drops.
// English by default; swap the slice for another language domain.
var Stopwords = []string{
	"the", "and", "or", "but", "if", "then", "else", "for", "of", "in",
	"on", "at", "by", "with", "as", "is", "are", "was", "were", "be",
	"been", "being", "it", "this", "that", "these", "those", "from",
	"into", "about", "between", "through", "during", "before", "after",
	"above", "below", "over", "under", "again", "further", "than", "such",
	"what", "which", "who", "whom", "when", "where", "why", "how", "does",
	"have", "has", "had", "will", "would", "could", "should", "their",
	"there", "here", "them", "they", "your", "very", "just", "also",
}
