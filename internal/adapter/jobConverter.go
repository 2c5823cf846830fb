package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/docchat/internal/api"
	"github.com/akolanti/docchat/internal/domain/docModel"
	"github.com/akolanti/docchat/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Output: ToJobOutput(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToJobOutput(payload jobModel.JobPayload) *api.JobOutput {
	if payload.DocumentId == "" && payload.Summary == "" && len(payload.Topics) == 0 {
		return nil
	}

	return &api.JobOutput{
		DocumentId: payload.DocumentId,
		Summary:    payload.Summary,
		Topics:     payload.Topics,
	}
}

func ToDocumentResponse(doc docModel.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:          doc.Id,
		Name:        doc.Name,
		ContentType: string(doc.ContentType),
		ChunkCount:  len(doc.Chunks),
		SourceURL:   doc.SourceURL,
		HasSummary:  doc.Summary != "",
		CreatedTime: doc.CreatedTime,
	}
}

func ToDocumentListResponse(docs []docModel.Document) api.DocumentListResponse {
	out := api.DocumentListResponse{Documents: make([]api.DocumentResponse, 0, len(docs))}
	for _, doc := range docs {
		out.Documents = append(out.Documents, ToDocumentResponse(doc))
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
