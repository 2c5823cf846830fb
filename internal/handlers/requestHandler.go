package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/docchat/internal/adapter"
	"github.com/akolanti/docchat/internal/adapter/utils"
	"github.com/akolanti/docchat/internal/api"
	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/metrics"
	"github.com/akolanti/docchat/internal/qa"
	"github.com/akolanti/docchat/internal/qa/generate"
	"github.com/akolanti/docchat/pkg/logger_i"
)

var logRH *logger_i.Logger

// one struct per queued job so jobHandler can move to its own package later
type newJobData struct {
	id             string
	jobType        jobModel.JobType
	documentId     string
	documentName   string
	documentSource string
	traceId        string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler godoc
// @Summary      Ask a question about a document
// @Description  Answers a question against one ingested document and streams the reply as Server-Sent Events: delta events while the model produces text, then a final done event carrying the full answer.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      api.ChatRequest  true  "Document ID and question"
// @Success      200      {object}  api.StreamEvent  "SSE stream of answer deltas"
// @Failure      400      {object}  api.JobResponse  "Invalid request data"
// @Failure      404      {object}  api.JobResponse  "Document not found"
// @Failure      409      {object}  api.JobResponse  "Another generation is in progress"
// @Failure      503      {object}  api.JobResponse  "Model not loaded yet"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Chat handler reader :", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {
		logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.DocumentID, "Bad Request")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteErrorResponse(w, http.StatusInternalServerError, requestData.DocumentID, "Streaming unsupported")
		return
	}

	streaming := false
	startStream := func() {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		streaming = true
	}

	answer, err := qaService.ProcessQuery(request.Context(), requestData.DocumentID, requestData.Message, func(delta string) {
		if !streaming {
			startStream()
		}
		writeStreamEvent(w, api.StreamEvent{Delta: delta})
		flusher.Flush()
		metrics.StreamDeltasTotal.Inc()
	})
	if err != nil {
		// headers are gone once the first delta went out, degrade to an error event
		if streaming {
			writeStreamEvent(w, api.StreamEvent{Done: true, Error: "generation interrupted"})
			flusher.Flush()
			return
		}
		code, message := chatErrorStatus(err)
		WriteErrorResponse(w, code, requestData.DocumentID, message)
		return
	}

	if !streaming {
		startStream()
	}
	writeStreamEvent(w, api.StreamEvent{Done: true, Answer: answer})
	flusher.Flush()
}

func chatErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, qa.ErrDocumentNotFound):
		return http.StatusNotFound, "Document not found"
	case errors.Is(err, generate.ErrGenerationInFlight):
		return http.StatusConflict, "Another generation is in progress"
	case errors.Is(err, generate.ErrModelNotReady):
		return http.StatusServiceUnavailable, "Model not loaded yet"
	default:
		return http.StatusInternalServerError, "Generation failed"
	}
}

func writeStreamEvent(w http.ResponseWriter, event api.StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logRH.Error("Error encoding stream event", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		logRH.Error("Error writing stream event", "error", err)
	}
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler handles the uploading of PDF, DOCX, TXT or HTML documents.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF, DOCX, TXT or HTML file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	queueJob(r, w, newJobData{
		jobType:        jobModel.JobTypeIngest,
		documentName:   docName,
		documentSource: tempFilePath,
	})
}

// PostIngestURLHandler godoc
// @Summary      Ingest a web page
// @Description  Fetches an http(s) URL, extracts the readable article text and queues an ingestion job.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestURLRequest  true  "The page URL to ingest"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Missing or non-http(s) URL"
// @Router       /ingest/url [post]
func PostIngestURLHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.IngestURLRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.URL == "" {
		logRH.Warn("Bad Ingest URL Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "url is required")
		return
	}

	queueJob(r, w, newJobData{
		jobType:        jobModel.JobTypeIngestURL,
		documentName:   requestData.URL,
		documentSource: requestData.URL,
	})
}

// GetDocumentsHandler godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docs, err := documentStore.GetAllDocuments(r.Context())
		if err != nil {
			logRH.Error("Error listing documents", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      204  "Document deleted"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		if _, found := documentStore.GetDocument(r.Context(), idString); !found {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
			return
		}
		documentStore.DeleteDocument(r.Context(), idString)
		qaService.ReleaseDocument(idString)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PostSummaryHandler godoc
// @Summary      Queue a document summary job
// @Description  Queues a background job that produces (and stores) a multi-paragraph summary of the document.
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id}/summary [post]
func PostSummaryHandler(w http.ResponseWriter, r *http.Request) {
	queueDocumentJob(w, r, jobModel.JobTypeSummary)
}

// PostTopicsHandler godoc
// @Summary      Queue a key-topics extraction job
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id}/topics [post]
func PostTopicsHandler(w http.ResponseWriter, r *http.Request) {
	queueDocumentJob(w, r, jobModel.JobTypeTopics)
}

func queueDocumentJob(w http.ResponseWriter, r *http.Request, jobType jobModel.JobType) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	if _, found := documentStore.GetDocument(r.Context(), idString); !found {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
		return
	}

	queueJob(r, w, newJobData{
		jobType:    jobType,
		documentId: idString,
	})
}
