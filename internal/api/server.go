// Package api serves the classifier over HTTP.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/imageio"
	"github.com/samcharles93/dsconv/internal/logger"
)

// DefaultMaxBody bounds request bodies; a 32x32 BMP is about 3 KiB.
const DefaultMaxBody = 4 << 20

// Classifier is the subset of *classify.Model the server needs.
type Classifier interface {
	Classify(ctx context.Context, img imageio.RGB) (*classify.Result, error)
	Config() classify.Config
	Labels() []string
}

type Server struct {
	model   Classifier
	files   []assets.Digest
	log     logger.Logger
	clock   func() time.Time
	maxBody int64
}

// NewServer wraps model. files, when known, is reported by GET /v1/model.
func NewServer(model Classifier, files []assets.Digest, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		model:   model,
		files:   files,
		log:     log,
		clock:   time.Now,
		maxBody: DefaultMaxBody,
	}
}

// SetMaxBody overrides the request body limit; n <= 0 restores the default.
func (s *Server) SetMaxBody(n int64) {
	if n <= 0 {
		n = DefaultMaxBody
	}
	s.maxBody = n
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/classify", s.handleClassify)
	e.GET("/v1/model", s.handleModel)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModel(c *echo.Context) error {
	cfg := s.model.Config()
	return writeJSON(c, http.StatusOK, ModelResponse{
		Object:  "model",
		Input:   Shape{H: cfg.H, W: cfg.W, C: cfg.Cin},
		Classes: cfg.Cout,
		Labels:  s.model.Labels(),
		Relu6:   cfg.Relu6,
		TopK:    cfg.TopK,
		Quant:   cfg.Quant,
		Files:   s.files,
	})
}

func (s *Server) handleClassify(c *echo.Context) error {
	img, topK, err := s.decodeRequest(c.Request())
	if err == nil {
		err = checkTopK(topK, s.model.Config().Cout)
	}
	if err != nil {
		return writeBadRequest(c, err.Error(), errorParam(err))
	}

	res, err := s.model.Classify(c.Request().Context(), img)
	if err != nil {
		if errors.Is(err, classify.ErrImageSize) {
			return writeBadRequest(c, err.Error(), "image")
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	top := res.Top
	if topK != nil {
		top = classify.TopK(res.Probs, s.model.Labels(), *topK)
	}

	resp := ClassifyResponse{
		ID:            "cls_" + uuid.NewString(),
		Object:        "classification",
		Created:       s.clock().Unix(),
		Top:           top,
		Probabilities: res.Probs,
		TimingsUS:     timingsUS(res.Timings),
		Memory:        res.Memory,
	}
	if len(top) > 0 {
		s.log.Debug("classified", "id", resp.ID, "label", top[0].Label, "score255", top[0].Score255, "total_us", resp.TimingsUS.Total)
	}
	return writeJSON(c, http.StatusOK, resp)
}

func checkTopK(topK *int, cout int) error {
	if topK != nil && (*topK < 0 || *topK > cout) {
		return newInvalidRequest("top_k", fmt.Sprintf("top_k must be in [0,%d]", cout))
	}
	return nil
}

// decodeRequest accepts either a JSON body carrying a base64 BMP or the raw
// BMP bytes. Every error it returns is an invalid request error.
func (s *Server) decodeRequest(r *http.Request) (imageio.RGB, *int, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody+1))
	if err != nil {
		return imageio.RGB{}, nil, newInvalidRequest("", fmt.Sprintf("read body: %v", err))
	}
	if int64(len(body)) > s.maxBody {
		return imageio.RGB{}, nil, newInvalidRequest("", fmt.Sprintf("request body exceeds %d bytes", s.maxBody))
	}
	if !strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		img, err := decodeImage(body)
		return img, nil, err
	}

	var req ClassifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return imageio.RGB{}, nil, newInvalidRequest("", fmt.Sprintf("invalid JSON: %v", err))
	}
	if req.Image == "" {
		return imageio.RGB{}, nil, newInvalidRequest("image", "image is required")
	}
	raw, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return imageio.RGB{}, nil, newInvalidRequest("image", fmt.Sprintf("image: %v", err))
	}
	img, err := decodeImage(raw)
	return img, req.TopK, err
}

func decodeImage(data []byte) (imageio.RGB, error) {
	img, err := imageio.DecodeBMP(data)
	if err != nil {
		return imageio.RGB{}, newInvalidRequest("image", err.Error())
	}
	return img, nil
}
