// @title           Document Chat API
// @version         1.0
// @description     This API answers questions about ingested documents, streams chat responses and tracks background ingestion, summary and topic jobs.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//run a local llama.cpp server for the "local" provider
//llama-server -m ./models/llama-3.1-8b-instruct.gguf --port 8080

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
