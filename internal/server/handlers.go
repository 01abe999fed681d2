package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/poolkit/pkg/buildinfo"
	"github.com/matzehuels/poolkit/pkg/cache"
	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pipeline"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// layoutNamespace derives stable layout ids from cache keys.
var layoutNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/poolkit/layout"))

type layoutRequest struct {
	Document json.RawMessage  `json:"document"`
	Options  pipeline.Options `json:"options"`
}

type cacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

type layoutResponse struct {
	LayoutID  string            `json:"layout_id"`
	DocHash   string            `json:"doc_hash"`
	Layout    pool.Layout       `json:"layout"`
	MinSize   pool.Size         `json:"min_size"`
	Cache     cacheInfo         `json:"cache"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

type hitRequest struct {
	Document json.RawMessage `json:"document"`
	Point    pool.Point      `json:"point"`
}

type hitResponse struct {
	Lanes     []string `json:"lanes"`
	Milestone string   `json:"milestone,omitempty"`
}

type pathRequest struct {
	Document json.RawMessage `json:"document"`
	Lane     string          `json:"lane"`
}

type pathResponse struct {
	Lane     string    `json:"lane"`
	Path     pool.Path `json:"path"`
	Pointer  string    `json:"pointer"`
	ParentID string    `json:"parent_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		writeErr(w, err)
		return
	}
	opts := req.Options
	formats := opts.Formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeErr(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options"))
		return
	}

	// The pool is built first so that spec errors surface before caching.
	p, err := pipeline.BuildPool(doc, opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := layoutResponse{MinSize: p.MinSize()}
	if len(formats) == 0 {
		l, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), doc, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp.Layout = l
		resp.Cache.LayoutHit = hit
		resp.DocHash, err = cache.HashJSON(doc)
		if err != nil {
			writeErr(w, err)
			return
		}
	} else {
		result, err := s.runner.Execute(r.Context(), doc, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp.Layout = result.Layout
		resp.DocHash = result.DocHash
		resp.Artifacts = result.Artifacts
		resp.Cache = cacheInfo{LayoutHit: result.CacheInfo.LayoutHit, RenderHit: result.CacheInfo.RenderHit}
	}
	key := s.runner.Keyer.LayoutKey(resp.DocHash, opts.LayoutKeyOpts())
	resp.LayoutID = uuid.NewSHA1(layoutNamespace, []byte(key)).String()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		writeErr(w, err)
		return
	}
	opts := req.Options
	format, err := renderQuery(r, &opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	l, err := s.runner.GenerateLayout(r.Context(), doc, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.writeArtifact(w, r, l, opts, format)
}

// renderQuery applies ?format= and ?style= to opts and validates them.
func renderQuery(r *http.Request, opts *pipeline.Options) (string, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	return format, nil
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, l pool.Layout, opts pipeline.Options, format string) {
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatTree:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := doc.Pool()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hitTest(p, req.Point))
}

func hitTest(p *pool.Pool, pt pool.Point) hitResponse {
	resp := hitResponse{Lanes: p.LanesFromPoint(pt)}
	if resp.Lanes == nil {
		resp.Lanes = []string{}
	}
	resp.Milestone, _ = p.MilestoneFromPoint(pt)
	return resp
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := doc.Pool()
	if err != nil {
		writeErr(w, err)
		return
	}

	path, ok := p.LanePath(req.Lane)
	if !ok {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), "unknown lane "+req.Lane)
		return
	}
	parent, _ := p.ParentLaneID(req.Lane)
	writeJSON(w, http.StatusOK, pathResponse{
		Lane:     req.Lane,
		Path:     path,
		Pointer:  path.String(),
		ParentID: parent,
	})
}
