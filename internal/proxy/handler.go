package proxy

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/tutor"
)

const ctxErrorKind = "error_kind"

// Handler serves the tutor API on top of a tutor.Service.
type Handler struct {
	svc tutor.Service
	log *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc tutor.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log}
}

// Tutor handles POST /api/tutor.
func (h *Handler) Tutor(c *gin.Context) {
	var req tutor.Request
	// Undecodable bodies are server errors; missing fields are input errors.
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("malformed request body", "error", err, "request_id", c.GetString(ctxRequestID))
		respondError(c, &tutor.Error{Kind: tutor.KindParse, Message: "invalid request body", Err: err})
		return
	}
	if strings.TrimSpace(req.Mode) == "" {
		respondError(c, &tutor.Error{Kind: tutor.KindInput, Message: "mode is required"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondError(c, &tutor.Error{Kind: tutor.KindInput, Message: "topic is required"})
		return
	}
	mode, err := modes.Parse(req.Mode)
	if err != nil {
		respondError(c, &tutor.Error{Kind: tutor.KindInput, Message: err.Error(), Err: err})
		return
	}

	resp, err := h.svc.GetTutorResponse(c.Request.Context(), req.Topic, mode)
	if err != nil {
		te := tutor.AsError(err)
		h.log.Warn("tutor request failed",
			"mode", mode,
			"kind", te.Kind,
			"error", err,
			"request_id", c.GetString(ctxRequestID),
		)
		respondError(c, te)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func methodNotAllowed(c *gin.Context) {
	respondError(c, &tutor.Error{Kind: tutor.KindInput, Message: "method not allowed"}, http.StatusMethodNotAllowed)
}

func notFound(c *gin.Context) {
	respondError(c, &tutor.Error{Kind: tutor.KindInput, Message: "not found"}, http.StatusNotFound)
}

// respondError writes the canonical error body. The status is derived from
// the error kind unless given explicitly.
func respondError(c *gin.Context, err *tutor.Error, status ...int) {
	code := StatusFor(err.Kind)
	if len(status) > 0 {
		code = status[0]
	}
	c.Set(ctxErrorKind, string(err.Kind))
	c.AbortWithStatusJSON(code, tutor.ErrorBody{
		Error: tutor.ErrorDetail{Kind: err.Kind, Message: err.Message},
	})
}

// StatusFor maps an error kind to the HTTP status the proxy replies with.
func StatusFor(kind tutor.Kind) int {
	switch kind {
	case tutor.KindInput:
		return http.StatusBadRequest
	case tutor.KindUpstream, tutor.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errNoService = errors.New("proxy: nil tutor service")
