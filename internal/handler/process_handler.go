package handler

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"ladinglens/internal/service"
)

// ProcessHandler handles synchronous and streaming processing runs.
type ProcessHandler struct {
	processing service.ProcessingService
	jobService service.JobService
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(processing service.ProcessingService, jobService service.JobService) *ProcessHandler {
	return &ProcessHandler{processing: processing, jobService: jobService}
}

// Run handles POST /api/v1/process
//
// Runs the whole pipeline within the request and returns the summary. A job
// row is still recorded so the run shows up in job history.
func (h *ProcessHandler) Run(c *gin.Context) {
	skipDedupe := c.Query("skip_dedupe") == "true"
	ctx := c.Request.Context()

	job, err := h.jobService.StartInlineJob(ctx, skipDedupe)
	if err != nil {
		HandleError(c, err)
		return
	}

	summary, runErr := h.processing.Run(ctx, job.ID, skipDedupe, nil)

	if err := h.jobService.FinishInlineJob(ctx, job.ID, runErr, summary); err != nil {
		log.Printf("handler.ProcessHandler: finishing job %s: %v", job.ID, err)
	}
	if runErr != nil {
		HandleError(c, runErr)
		return
	}

	RespondOK(c, gin.H{"job_id": job.ID, "summary": summary})
}

// Stream handles GET /api/v1/process-stream
//
// Streams per-document progress as Server-Sent Events while the run executes,
// finishing with a "summary" event.
func (h *ProcessHandler) Stream(c *gin.Context) {
	skipDedupe := c.Query("skip_dedupe") == "true"
	ctx := c.Request.Context()

	job, err := h.jobService.StartInlineJob(ctx, skipDedupe)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events := make(chan service.ProcessingEvent, 64)
	type runResult struct {
		summary interface{}
		err     error
	}
	done := make(chan runResult, 1)

	go func() {
		defer close(events)
		summary, runErr := h.processing.Run(ctx, job.ID, skipDedupe, func(e service.ProcessingEvent) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		})
		if err := h.jobService.FinishInlineJob(ctx, job.ID, runErr, summary); err != nil {
			log.Printf("handler.ProcessHandler: finishing job %s: %v", job.ID, err)
		}
		if runErr != nil {
			done <- runResult{err: runErr}
			return
		}
		done <- runResult{summary: gin.H{"job_id": job.ID, "summary": summary}}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				result := <-done
				if result.err != nil {
					c.SSEvent("error", gin.H{"message": result.err.Error()})
				} else {
					c.SSEvent("summary", result.summary)
				}
				return false
			}
			c.SSEvent("progress", event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
