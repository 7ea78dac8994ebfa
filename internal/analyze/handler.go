package analyze

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"careerkit-backend/internal/extract"
	"careerkit-backend/internal/gemini"
	"careerkit-backend/internal/keys"
	"careerkit-backend/internal/shared/server/respond"
	"careerkit-backend/internal/shared/telemetry"
)

// Inflated base64 plus form overhead for a file at the 5 MiB limit.
const maxRequestBytes = 16 << 20

const quotaDocsURL = "https://ai.google.dev/gemini-api/docs/rate-limits"

// Handler wires the analyze endpoint to the service and key resolver.
type Handler struct {
	Svc      *Service
	Resolver *keys.Resolver

	// DefaultKey is the server-configured fallback credential; empty when
	// the operator provides none.
	DefaultKey string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, resolver *keys.Resolver, defaultKey string) *Handler {
	return &Handler{Svc: svc, Resolver: resolver, DefaultKey: defaultKey}
}

// RegisterRoutes attaches the analyze route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	sub, bodyKey, err := parseRequest(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// Resolution order: request header, then the server default, then a
	// client-persisted key carried in the body. Header keys authenticate
	// the generation call itself; the other two get one trial call each.
	candidates := []keys.Credential{
		{Key: strings.TrimSpace(c.GetHeader("x-api-key")), Origin: keys.OriginRequest},
		{Key: h.DefaultKey, Origin: keys.OriginServer},
		{Key: bodyKey, Origin: keys.OriginClient},
	}
	cred, err := h.Resolver.Resolve(c.Request.Context(), candidates)
	if err != nil {
		respond.KeyRequired(c, "API key is required")
		return
	}

	analysisID := uuid.NewString()
	c.Set("analysisId", analysisID)
	c.Set("keyOrigin", string(cred.Origin))

	result, err := h.Svc.Analyze(c.Request.Context(), sub, cred.Key)
	if err != nil {
		h.fail(c, analysisID, err)
		return
	}

	telemetry.Info("analyze.complete", map[string]any{
		"analysis_id": analysisID,
		"key_origin":  string(cred.Origin),
		"request_id":  c.GetString("requestId"),
	})
	respond.OK(c, result)
}

func (h *Handler) fail(c *gin.Context, analysisID string, err error) {
	var vErr *ValidationError
	var genErr *GenerationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(c, http.StatusBadRequest, vErr.Message)

	case errors.Is(err, extract.ErrNoText):
		respond.Error(c, http.StatusBadRequest, "Could not extract text from PDF. Please ensure the PDF contains readable text.")

	case errors.Is(err, ErrPDFParse):
		respond.Error(c, http.StatusBadRequest, "Failed to parse PDF file. Please ensure it's a valid PDF.")

	case errors.As(err, &genErr):
		telemetry.Error("analyze.generation_failed", map[string]any{
			"analysis_id": analysisID,
			"kind":        int(genErr.Kind),
			"err":         genErr.Err.Error(),
		})
		switch genErr.Kind {
		case gemini.KindQuota:
			respond.QuotaExceeded(c,
				"Daily free tier quota exceeded. Please try again tomorrow or upgrade your plan.",
				"You've reached the free tier limit for the Gemini API.",
				quotaDocsURL)
		case gemini.KindInvalidKey:
			respond.TypedError(c, http.StatusInternalServerError, "Invalid API key configuration", "INVALID_API_KEY")
		case gemini.KindTransport:
			respond.TypedError(c, http.StatusInternalServerError, "Internal server error", "SERVER_ERROR")
		default:
			respond.TypedError(c, http.StatusInternalServerError, "Failed to generate content. Please try again.", "AI_SERVICE_ERROR")
		}

	case errors.Is(err, ErrMalformedOutput):
		respond.TypedError(c, http.StatusInternalServerError, "Invalid response format from AI service", "AI_SERVICE_ERROR")

	case errors.Is(err, ErrIncompleteOutput):
		respond.TypedError(c, http.StatusInternalServerError, "Incomplete response from AI service", "AI_SERVICE_ERROR")

	default:
		respond.TypedError(c, http.StatusInternalServerError, "Internal server error", "SERVER_ERROR")
	}
}

type jsonResume struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type jsonRequest struct {
	Resume         jsonResume `json:"resume"`
	JobTitle       string     `json:"jobTitle"`
	JobDescription string     `json:"jobDescription"`
	APIKey         string     `json:"apiKey"`
}

// parseRequest negotiates the body by content type: a multipart form with a
// binary file part, or a JSON document with the file base64-embedded.
func parseRequest(c *gin.Context) (Submission, string, error) {
	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		sub, err := parseMultipart(c)
		return sub, "", err
	case strings.HasPrefix(contentType, "application/json"):
		return parseJSON(c)
	default:
		return Submission{}, "", errors.New("Unsupported content type. Please use multipart/form-data or application/json")
	}
}

func parseMultipart(c *gin.Context) (Submission, error) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return Submission{}, errors.New("No file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return Submission{}, errors.New("Failed to read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Submission{}, errors.New("Failed to read uploaded file")
	}

	fileType := fileHeader.Header.Get("Content-Type")
	if fileType == "" {
		fileType = "application/pdf"
	}

	return Submission{
		FileName:       fileHeader.Filename,
		FileType:       fileType,
		File:           data,
		JobTitle:       strings.TrimSpace(c.PostForm("jobTitle")),
		JobDescription: c.PostForm("jobDescription"),
	}, nil
}

func parseJSON(c *gin.Context) (Submission, string, error) {
	var req jsonRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		return Submission{}, "", errors.New("Failed to parse request")
	}

	if req.Resume.Data == "" || req.Resume.Name == "" {
		return Submission{}, "", errors.New("Invalid file data in request")
	}

	// Accept both a raw base64 string and a data: URI.
	payload := req.Resume.Data
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Submission{}, "", errors.New("Invalid file data in request")
	}

	fileType := req.Resume.Type
	if fileType == "" {
		fileType = "application/pdf"
	}

	return Submission{
		FileName:       req.Resume.Name,
		FileType:       fileType,
		File:           data,
		JobTitle:       strings.TrimSpace(req.JobTitle),
		JobDescription: req.JobDescription,
	}, strings.TrimSpace(req.APIKey), nil
}
