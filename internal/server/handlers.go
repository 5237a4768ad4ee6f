package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/quilt/pkg/buildinfo"
	"github.com/matzehuels/quilt/pkg/cache"
	qerrors "github.com/matzehuels/quilt/pkg/errors"
	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/observability"
	"github.com/matzehuels/quilt/pkg/pipeline"
	"github.com/matzehuels/quilt/pkg/quilt"
)

type layoutRequest struct {
	Document *qio.Document    `json:"document"`
	Options  pipeline.Options `json:"options"`
}

type layoutResponse struct {
	DocumentHash string              `json:"document_hash"`
	Layout       quilt.Layout        `json:"layout"`
	Artifacts    map[string]artifact `json:"artifacts,omitempty"`
	Stats        statsBody           `json:"stats"`
	Cache        pipeline.CacheInfo  `json:"cache"`
}

type artifact struct {
	Encoding string `json:"encoding"`
	Data     string `json:"data"`
}

type statsBody struct {
	Items    int     `json:"items"`
	Tiles    int     `json:"tiles"`
	Capacity int     `json:"capacity"`
	PackMS   float64 `json:"pack_ms"`
	RenderMS float64 `json:"render_ms"`
}

type tilesRequest struct {
	Document *qio.Document    `json:"document"`
	Options  pipeline.Options `json:"options"`
	Rect     quilt.Rect       `json:"rect"`
}

type tilesResponse struct {
	Tiles       []quilt.Tile    `json:"tiles"`
	Placed      int             `json:"placed"`
	Total       int             `json:"total"`
	Capacity    int             `json:"capacity"`
	ContentSize quilt.PixelSize `json:"content_size"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleLayout packs the document. Formats in the options additionally
// render artifacts; without formats only the layout is returned.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	opts := req.Options
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(ctx))

	if len(opts.Formats) == 0 {
		l, hit, err := s.runner.PackWithCacheInfo(ctx, req.Document, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, layoutResponse{
			DocumentHash: documentHash(req.Document),
			Layout:       l,
			Stats:        statsBody{Items: req.Document.Len(), Tiles: len(l.Tiles), Capacity: l.Capacity},
			Cache:        pipeline.CacheInfo{LayoutHit: hit},
		})
		return
	}

	res, err := s.runner.Execute(ctx, req.Document, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := layoutResponse{
		DocumentHash: res.DocumentHash,
		Layout:       res.Layout,
		Artifacts:    make(map[string]artifact, len(res.Artifacts)),
		Stats: statsBody{
			Items:      res.Stats.ItemCount,
			Tiles:      res.Stats.TileCount,
			Capacity:   res.Stats.Capacity,
			PackMS:     float64(res.Stats.PackTime.Microseconds()) / 1000,
			RenderMS:   float64(res.Stats.RenderTime.Microseconds()) / 1000,
		},
		Cache: res.CacheInfo,
	}
	for format, data := range res.Artifacts {
		resp.Artifacts[format] = encodeArtifact(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	var req tilesRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	opts := req.Options
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(ctx))

	win, err := s.runner.Window(ctx, req.Document, req.Rect, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tiles := win.Tiles
	if tiles == nil {
		tiles = []quilt.Tile{}
	}
	writeJSON(w, http.StatusOK, tilesResponse{
		Tiles:       tiles,
		Placed:      win.Placed,
		Total:       win.Total,
		Capacity:    win.Capacity,
		ContentSize: win.ContentSize,
	})
}

// decode reads a JSON request body into v, answering with an error and
// returning false when that fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		} else {
			err = qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "decode request body")
		}
		s.fail(w, r, err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

func encodeArtifact(data []byte) artifact {
	if utf8.Valid(data) {
		return artifact{Encoding: "utf-8", Data: string(data)}
	}
	return artifact{Encoding: "base64", Data: base64.StdEncoding.EncodeToString(data)}
}

func documentHash(doc *qio.Document) string {
	data, err := doc.Canonical()
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
