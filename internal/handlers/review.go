package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"reviewlens-gateway/internal/suggest"
	"reviewlens-gateway/pkg/logging/logging"
)

// maxImageMemory is how much of a multipart upload is held in memory
// before spilling to disk.
const maxImageMemory = 8 << 20

// Analyzer returns the review for a product identifier.
type Analyzer interface {
	Analysis(ctx context.Context, productID string) (string, error)
}

// Identifier names the product shown in an image.
type Identifier interface {
	Identify(ctx context.Context, image []byte) (string, error)
}

// Speaker turns review markdown into MP3 audio.
type Speaker interface {
	Speak(ctx context.Context, markdown string) ([]byte, error)
}

type Suggester interface {
	Suggest(ctx context.Context, query string) suggest.Result
}

// ReviewHandler serves the review, suggestion and speech endpoints.
type ReviewHandler struct {
	Analyzer   Analyzer
	Identifier Identifier
	Speaker    Speaker
	Suggester  Suggester
}

func NewReviewHandler(a Analyzer, id Identifier, sp Speaker, sg Suggester) *ReviewHandler {
	return &ReviewHandler{
		Analyzer:   a,
		Identifier: id,
		Speaker:    sp,
		Suggester:  sg,
	}
}

type reviewRequest struct {
	Product string `json:"product"`
	Audio   bool   `json:"audio"`
}

type reviewResponse struct {
	Product  string `json:"product"`
	Analysis string `json:"analysis"`
	Audio    string `json:"audio,omitempty"` // base64 MP3
}

type suggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Degraded    bool     `json:"degraded"`
}

// Review handles POST /v1/reviews.
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(w, r, err)
		return
	}
	if strings.TrimSpace(req.Product) == "" {
		writeError(w, http.StatusBadRequest, "product is required")
		return
	}

	h.respondReview(w, r, req.Product, req.Audio)
}

// Upload handles POST /v1/reviews/upload and /v1/reviews/capture. The
// image in multipart field "image" is identified first and the resolved
// name is reviewed as if it had been typed.
func (h *ReviewHandler) Upload(source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseMultipartForm(maxImageMemory); err != nil {
			h.badBody(w, r, err)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, _, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "multipart field 'image' is required")
			return
		}
		image, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			h.badBody(w, r, err)
			return
		}
		if len(image) == 0 {
			writeError(w, http.StatusBadRequest, "image is empty")
			return
		}

		withAudio, _ := strconv.ParseBool(r.FormValue("audio"))

		product, err := h.Identifier.Identify(ctx, image)
		if err != nil {
			writeUpstreamError(ctx, w, "identify", err)
			return
		}

		logging.L(ctx).Info("image_resolved",
			zap.String("source", source),
			zap.String("product", product),
		)

		h.respondReview(w, r, product, withAudio)
	}
}

func (h *ReviewHandler) respondReview(w http.ResponseWriter, r *http.Request, product string, withAudio bool) {
	ctx := r.Context()

	analysis, err := h.Analyzer.Analysis(ctx, product)
	if err != nil {
		writeUpstreamError(ctx, w, "analysis", err)
		return
	}

	resp := reviewResponse{Product: product, Analysis: analysis}
	if withAudio {
		audio, err := h.Speaker.Speak(ctx, analysis)
		if err != nil {
			writeUpstreamError(ctx, w, "speech", err)
			return
		}
		resp.Audio = base64.StdEncoding.EncodeToString(audio)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /v1/suggestions?q=. It always answers 200; a
// failed lookup is reported through the degraded flag.
func (h *ReviewHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	res := h.Suggester.Suggest(r.Context(), r.URL.Query().Get("q"))

	suggestions := res.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Query:       res.Query,
		Suggestions: suggestions,
		Degraded:    res.Degraded(),
	})
}

// Speech handles POST /v1/speech and returns the review read aloud.
func (h *ReviewHandler) Speech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(w, r, err)
		return
	}
	if strings.TrimSpace(req.Product) == "" {
		writeError(w, http.StatusBadRequest, "product is required")
		return
	}

	analysis, err := h.Analyzer.Analysis(ctx, req.Product)
	if err != nil {
		writeUpstreamError(ctx, w, "analysis", err)
		return
	}
	audio, err := h.Speaker.Speak(ctx, analysis)
	if err != nil {
		writeUpstreamError(ctx, w, "speech", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (h *ReviewHandler) badBody(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	logging.L(r.Context()).Warn("invalid request", zap.Error(err))
	writeError(w, http.StatusBadRequest, "invalid request body")
}
