package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/biomech-data/biomech.coach/internal/analysis"
	"github.com/biomech-data/biomech.coach/internal/geom"
	"github.com/biomech-data/biomech.coach/internal/httputil"
	"github.com/biomech-data/biomech.coach/internal/pose"
	"github.com/biomech-data/biomech.coach/internal/units"
	"github.com/biomech-data/biomech.coach/internal/version"
)

// Request bodies are capped to keep a hostile client from exhausting memory.
// A full 33-keypoint frame is well under 8KB.
const maxBodyBytes = 1 << 20

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// mirrorPose reflects a frame across the vertical centreline of the image.
// Width comes from the query string and falls back to the configured default.
func (s *Server) mirrorPose(w http.ResponseWriter, r *http.Request) {
	width := s.tuning.GetDefaultFrameWidth()
	if wq := r.URL.Query().Get("width"); wq != "" {
		parsed, err := strconv.Atoi(wq)
		if err != nil || parsed <= 0 {
			httputil.BadRequest(w, "invalid 'width' parameter: must be a positive integer")
			return
		}
		width = parsed
	}

	var frame pose.Frame
	if !decodeJSONBody(w, r, &frame) {
		return
	}

	httputil.WriteJSONOK(w, geom.MirrorFrame(frame, width))
}

type jointAngleRequest struct {
	A      pose.Point2D `json:"a"`
	Vertex pose.Point2D `json:"vertex"`
	C      pose.Point2D `json:"c"`
}

type angleResponse struct {
	Angle float64 `json:"angle"`
	Units string  `json:"units"`
	OK    bool    `json:"ok"`
}

func (s *Server) jointAngle(w http.ResponseWriter, r *http.Request) {
	angleUnits, ok := s.requestUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid 'units' parameter: must be one of "+units.GetValidUnitsString())
		return
	}

	var req jointAngleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	deg, ok := geom.AngleAtVertex(req.A, req.Vertex, req.C)
	httputil.WriteJSONOK(w, angleResponse{
		Angle: units.ConvertAngle(deg, angleUnits),
		Units: angleUnits,
		OK:    ok,
	})
}

type verticalAngleRequest struct {
	Top    pose.Point2D `json:"top"`
	Bottom pose.Point2D `json:"bottom"`
}

func (s *Server) verticalAngle(w http.ResponseWriter, r *http.Request) {
	angleUnits, ok := s.requestUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid 'units' parameter: must be one of "+units.GetValidUnitsString())
		return
	}

	var req verticalAngleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	deg := geom.AngleFromVertical(req.Top, req.Bottom)
	httputil.WriteJSONOK(w, angleResponse{
		Angle: units.ConvertAngle(deg, angleUnits),
		Units: angleUnits,
		OK:    true,
	})
}

type createSessionRequest struct {
	Label       string `json:"label"`
	FrameWidth  int    `json:"frame_width"`
	FrameHeight int    `json:"frame_height"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	req := createSessionRequest{
		FrameWidth:  s.tuning.GetDefaultFrameWidth(),
		FrameHeight: s.tuning.GetDefaultFrameHeight(),
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	session, err := s.db.CreateSession(req.Label, pose.Dimensions{
		Width:  req.FrameWidth,
		Height: req.FrameHeight,
	})
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	httputil.WriteJSONCreated(w, session)
}

type recordFrameResponse struct {
	SessionID    string             `json:"session_id"`
	Timestamp    float64            `json:"timestamp"`
	Measurements map[string]float64 `json:"measurements"`
	Units        string             `json:"units"`
}

func (s *Server) recordFrame(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, err := s.db.GetSession(sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "session not found")
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to load session: %v", err))
		return
	}

	var frame pose.Frame
	if !decodeJSONBody(w, r, &frame) {
		return
	}

	measurements := analysis.FrameMeasurements(frame, s.tuning.GetMinKeypointScore())
	if err := s.db.RecordFrame(sessionID, frame, measurements); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to record frame: %v", err))
		return
	}

	converted := make(map[string]float64, len(measurements))
	for name, deg := range measurements {
		converted[name] = units.ConvertAngle(deg, s.units)
	}

	httputil.WriteJSONCreated(w, recordFrameResponse{
		SessionID:    sessionID,
		Timestamp:    frame.Timestamp,
		Measurements: converted,
		Units:        s.units,
	})
}

type sessionSummaryResponse struct {
	SessionID string                      `json:"session_id"`
	Units     string                      `json:"units"`
	Summaries map[string]analysis.Summary `json:"summaries"`
}

// convertSummary applies unit conversion to every angle-valued field of a
// summary. Degrees-to-radians is linear so spread statistics convert the
// same way the point statistics do.
func convertSummary(s analysis.Summary, targetUnits string) analysis.Summary {
	s.Mean = units.ConvertAngle(s.Mean, targetUnits)
	s.StdDev = units.ConvertAngle(s.StdDev, targetUnits)
	s.Min = units.ConvertAngle(s.Min, targetUnits)
	s.Max = units.ConvertAngle(s.Max, targetUnits)
	s.Range = units.ConvertAngle(s.Range, targetUnits)
	s.P50 = units.ConvertAngle(s.P50, targetUnits)
	s.P85 = units.ConvertAngle(s.P85, targetUnits)
	s.P95 = units.ConvertAngle(s.P95, targetUnits)
	return s
}

func (s *Server) sessionSummary(w http.ResponseWriter, r *http.Request) {
	angleUnits, ok := s.requestUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid 'units' parameter: must be one of "+units.GetValidUnitsString())
		return
	}

	sessionID := r.PathValue("id")
	if _, err := s.db.GetSession(sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "session not found")
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to load session: %v", err))
		return
	}

	summaries, err := s.db.SessionSummary(sessionID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to summarise session: %v", err))
		return
	}

	for name, summary := range summaries {
		summaries[name] = convertSummary(summary, angleUnits)
	}

	httputil.WriteJSONOK(w, sessionSummaryResponse{
		SessionID: sessionID,
		Units:     angleUnits,
		Summaries: summaries,
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]interface{}{
		"units":                s.units,
		"min_keypoint_score":   s.tuning.GetMinKeypointScore(),
		"default_frame_width":  s.tuning.GetDefaultFrameWidth(),
		"default_frame_height": s.tuning.GetDefaultFrameHeight(),
		"version":              version.Version,
	})
}
