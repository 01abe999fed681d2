package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pipeline"
	"github.com/matzehuels/poolkit/pkg/pool"
	"github.com/matzehuels/poolkit/pkg/session"
)

type poolResponse struct {
	ID       string            `json:"id"`
	Version  uint64            `json:"version"`
	Document *diagram.Document `json:"document"`
	Layout   pool.Layout       `json:"layout"`
	MinSize  pool.Size         `json:"min_size"`
}

// patchRequest changes pool-level settings. Absent fields are kept.
type patchRequest struct {
	Width          *float64      `json:"width"`
	Height         *float64      `json:"height"`
	X              *float64      `json:"x"`
	Y              *float64      `json:"y"`
	Angle          *float64      `json:"angle"`
	Padding        *pool.Padding `json:"padding"`
	HeaderSize     *float64      `json:"header_size"`
	MilestonesSize *float64      `json:"milestones_size"`
	AutoResize     *bool         `json:"auto_resize"`
}

func (req patchRequest) apply(doc *diagram.Document) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&doc.Width, req.Width)
	set(&doc.Height, req.Height)
	set(&doc.X, req.X)
	set(&doc.Y, req.Y)
	set(&doc.Angle, req.Angle)
	if req.Padding != nil {
		doc.Padding = *req.Padding
	}
	if req.HeaderSize != nil {
		doc.HeaderSize = req.HeaderSize
	}
	if req.MilestonesSize != nil {
		doc.MilestonesSize = req.MilestonesSize
	}
	if req.AutoResize != nil {
		doc.AutoResize = *req.AutoResize
	}
}

type laneResponse struct {
	pool.LaneBox
	Position pool.Point `json:"position"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Pointer  string     `json:"pointer"`
}

type milestoneResponse struct {
	pool.MilestoneBox
	Position pool.Point `json:"position"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
}

// loadPool fetches a session and builds its pool.
func (s *Server) loadPool(ctx context.Context, id string) (*session.Session, *pool.Pool, error) {
	if !session.ValidID(id) {
		return nil, nil, session.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, session.ErrNotFound
	}
	p, err := sess.Document.Pool()
	if err != nil {
		return nil, nil, err
	}
	return sess, p, nil
}

func poolView(sess *session.Session, p *pool.Pool) poolResponse {
	return poolResponse{
		ID:       sess.ID,
		Version:  sess.Version,
		Document: sess.Document,
		Layout:   p.Layout(),
		MinSize:  p.MinSize(),
	}
}

// update applies fn to the stored document and checks that the result still
// builds. Nothing is stored when fn or the build fails.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*diagram.Document) error) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		writeErr(w, session.ErrNotFound)
		return
	}
	var version uint64
	if v := r.URL.Query().Get("version"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeErr(w, errors.New(errors.ErrCodeInvalidInput, "invalid version %q", v))
			return
		}
		version = parsed
	}

	var built *pool.Pool
	sess, err := session.Update(r.Context(), s.sessions, id, version, s.cfg.SessionTTL, func(doc *diagram.Document) error {
		if err := fn(doc); err != nil {
			return err
		}
		p, err := doc.Pool()
		if err != nil {
			return err
		}
		built = p
		return nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poolView(sess, built))
}

// readBody reads a raw request body, honoring the size limit.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request")
	}
	return data, nil
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	doc, err := decodeDocument(data)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := doc.Pool()
	if err != nil {
		writeErr(w, err)
		return
	}

	sess := session.New(doc, s.cfg.SessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeErr(w, err)
		return
	}
	s.logger.Info("created pool", "id", sess.ID, "lanes", p.Registry().LaneCount())

	w.Header().Set("Location", "/v1/pools/"+sess.ID)
	writeJSON(w, http.StatusCreated, poolView(sess, p))
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	sess, p, err := s.loadPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poolView(sess, p))
}

func (s *Server) handleDeletePool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if session.ValidID(id) {
		if err := s.sessions.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePatchPool(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	s.update(w, r, func(doc *diagram.Document) error {
		req.apply(doc)
		return doc.Validate()
	})
}

func (s *Server) handleSetLanes(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	// Decoding through a document keeps the error classification of files.
	specs, err := decodeDocument(wrapField("lanes", data))
	if err != nil {
		writeErr(w, err)
		return
	}
	s.update(w, r, func(doc *diagram.Document) error {
		doc.Lanes = specs.Lanes
		return nil
	})
}

func (s *Server) handleSetMilestones(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	specs, err := decodeDocument(wrapField("milestones", data))
	if err != nil {
		writeErr(w, err)
		return
	}
	s.update(w, r, func(doc *diagram.Document) error {
		doc.Milestones = specs.Milestones
		return nil
	})
}

func wrapField(name string, raw []byte) json.RawMessage {
	if len(raw) == 0 {
		raw = []byte("null")
	}
	out := make([]byte, 0, len(raw)+len(name)+5)
	out = append(out, `{"`...)
	out = append(out, name...)
	out = append(out, `":`...)
	out = append(out, raw...)
	out = append(out, '}')
	return out
}

func (s *Server) handleAutoResize(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(doc *diagram.Document) error {
		p, err := doc.Pool()
		if err != nil {
			return err
		}
		size := p.AutoResize()
		doc.Width, doc.Height = size.Width, size.Height
		return nil
	})
}

func (s *Server) handlePoolHit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeErr(w, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	_, p, err := s.loadPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hitTest(p, pool.Point{X: x, Y: y}))
}

func (s *Server) handlePoolLane(w http.ResponseWriter, r *http.Request) {
	_, p, err := s.loadPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	id := chi.URLParam(r, "lane")
	box, ok := p.Layout().Lane(id)
	if !ok {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), "unknown lane "+id)
		return
	}
	pos, _ := p.LanePosition(id)
	width, _ := p.LaneWidth(id)
	height, _ := p.LaneHeight(id)
	writeJSON(w, http.StatusOK, laneResponse{
		LaneBox:  box,
		Position: pos,
		Width:    width,
		Height:   height,
		Pointer:  box.Path.String(),
	})
}

func (s *Server) handlePoolMilestone(w http.ResponseWriter, r *http.Request) {
	_, p, err := s.loadPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	id := chi.URLParam(r, "milestone")
	box, ok := p.Layout().Milestone(id)
	if !ok {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), "unknown milestone "+id)
		return
	}
	pos, _ := p.MilestonePosition(id)
	width, _ := p.MilestoneWidth(id)
	height, _ := p.MilestoneHeight(id)
	writeJSON(w, http.StatusOK, milestoneResponse{
		MilestoneBox: box,
		Position:     pos,
		Width:        width,
		Height:       height,
	})
}

func (s *Server) handlePoolRender(w http.ResponseWriter, r *http.Request) {
	_, p, err := s.loadPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var opts pipeline.Options
	opts.NoLabels = r.URL.Query().Get("labels") == "false"
	format, err := renderQuery(r, &opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.writeArtifact(w, r, p.Layout(), opts, format)
}
