// Package main provides an offline clip analysis tool. It reads a JSON file
// of pose frames exported from the estimator, optionally mirrors them, and
// prints per-joint angle summaries. With -server it uploads the clip to a
// running coach daemon instead of analysing locally.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"

	"github.com/biomech-data/biomech.coach/internal/analysis"
	"github.com/biomech-data/biomech.coach/internal/config"
	"github.com/biomech-data/biomech.coach/internal/geom"
	"github.com/biomech-data/biomech.coach/internal/httputil"
	"github.com/biomech-data/biomech.coach/internal/pose"
	"github.com/biomech-data/biomech.coach/internal/units"
)

// Config holds configuration for the clip analysis.
type Config struct {
	ClipFile   string
	TuningPath string
	Mirror     bool
	FrameWidth int
	Units      string
	JSONOutput bool
	ServerURL  string
	Label      string
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.ClipFile, "clip", "", "Path to a JSON file containing an array of pose frames (required)")
	flag.StringVar(&cfg.TuningPath, "config", "", "Path to a tuning config JSON file (optional)")
	flag.BoolVar(&cfg.Mirror, "mirror", false, "Mirror frames horizontally before analysis")
	flag.IntVar(&cfg.FrameWidth, "width", 0, "Frame width in pixels for mirroring (defaults to the tuning config)")
	flag.StringVar(&cfg.Units, "units", "", "Angle units for output: "+units.GetValidUnitsString()+" (defaults to the tuning config)")
	flag.BoolVar(&cfg.JSONOutput, "json", false, "Emit JSON instead of a table")
	flag.StringVar(&cfg.ServerURL, "server", "", "Base URL of a coach daemon to upload the clip to (optional)")
	flag.StringVar(&cfg.Label, "label", "", "Session label when uploading")
	flag.Parse()
	return cfg
}

func loadClip(path string) ([]pose.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip: %w", err)
	}
	var frames []pose.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("failed to parse clip: %w", err)
	}
	return frames, nil
}

func printSummaries(summaries map[string]analysis.Summary, angleUnits string, jsonOutput bool) error {
	if jsonOutput {
		converted := make(map[string]analysis.Summary, len(summaries))
		for name, s := range summaries {
			s.Mean = units.ConvertAngle(s.Mean, angleUnits)
			s.StdDev = units.ConvertAngle(s.StdDev, angleUnits)
			s.Min = units.ConvertAngle(s.Min, angleUnits)
			s.Max = units.ConvertAngle(s.Max, angleUnits)
			s.Range = units.ConvertAngle(s.Range, angleUnits)
			s.P50 = units.ConvertAngle(s.P50, angleUnits)
			s.P85 = units.ConvertAngle(s.P85, angleUnits)
			s.P95 = units.ConvertAngle(s.P95, angleUnits)
			converted[name] = s
		}
		return json.NewEncoder(os.Stdout).Encode(converted)
	}

	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-20s %6s %9s %9s %9s %9s %9s\n",
		"measurement", "count", "mean", "min", "max", "p50", "p85")
	for _, name := range names {
		s := summaries[name]
		fmt.Printf("%-20s %6d %9.2f %9.2f %9.2f %9.2f %9.2f\n",
			name, s.Count,
			units.ConvertAngle(s.Mean, angleUnits),
			units.ConvertAngle(s.Min, angleUnits),
			units.ConvertAngle(s.Max, angleUnits),
			units.ConvertAngle(s.P50, angleUnits),
			units.ConvertAngle(s.P85, angleUnits))
	}
	fmt.Printf("(%d measurements, units=%s)\n", len(names), angleUnits)
	return nil
}

// uploadClip pushes the clip to a running daemon: one session, one POST per
// frame, then fetches the server-side summary.
func uploadClip(client httputil.HTTPClient, baseURL, label string, frames []pose.Frame) error {
	sessionBody, err := json.Marshal(map[string]string{"label": label})
	if err != nil {
		return err
	}

	resp, err := client.Post(baseURL+"/sessions", "application/json", bytes.NewReader(sessionBody))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create session: unexpected status %d", resp.StatusCode)
	}

	var session struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}

	for i, frame := range frames {
		frameBody, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		frameResp, err := client.Post(
			baseURL+"/sessions/"+session.SessionID+"/frames",
			"application/json", bytes.NewReader(frameBody))
		if err != nil {
			return fmt.Errorf("failed to upload frame %d: %w", i, err)
		}
		io.Copy(io.Discard, frameResp.Body)
		frameResp.Body.Close()
		if frameResp.StatusCode != http.StatusCreated {
			return fmt.Errorf("upload frame %d: unexpected status %d", i, frameResp.StatusCode)
		}
	}

	summaryResp, err := client.Get(baseURL + "/sessions/" + session.SessionID + "/summary")
	if err != nil {
		return fmt.Errorf("failed to fetch summary: %w", err)
	}
	defer summaryResp.Body.Close()
	if summaryResp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch summary: unexpected status %d", summaryResp.StatusCode)
	}

	fmt.Printf("uploaded %d frames to session %s\n", len(frames), session.SessionID)
	_, err = io.Copy(os.Stdout, summaryResp.Body)
	return err
}

func main() {
	cfg := parseFlags()

	if cfg.ClipFile == "" {
		flag.Usage()
		log.Fatal("-clip is required")
	}

	tuning := config.EmptyTuningConfig()
	if cfg.TuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(cfg.TuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	if cfg.FrameWidth == 0 {
		cfg.FrameWidth = tuning.GetDefaultFrameWidth()
	}
	if cfg.FrameWidth <= 0 {
		log.Fatalf("invalid frame width %d", cfg.FrameWidth)
	}
	if cfg.Units == "" {
		cfg.Units = tuning.GetAngleUnits()
	}
	if !units.IsValid(cfg.Units) {
		log.Fatalf("invalid units %q: must be one of %s", cfg.Units, units.GetValidUnitsString())
	}

	frames, err := loadClip(cfg.ClipFile)
	if err != nil {
		log.Fatal(err)
	}
	if len(frames) == 0 {
		log.Fatal("clip contains no frames")
	}

	if cfg.Mirror {
		for i := range frames {
			frames[i] = geom.MirrorFrame(frames[i], cfg.FrameWidth)
		}
	}

	if cfg.ServerURL != "" {
		client := httputil.NewStandardClient(nil)
		if err := uploadClip(client, cfg.ServerURL, cfg.Label, frames); err != nil {
			log.Fatal(err)
		}
		return
	}

	summaries := analysis.SummarizeFrames(frames, tuning.GetMinKeypointScore())
	if err := printSummaries(summaries, cfg.Units, cfg.JSONOutput); err != nil {
		log.Fatal(err)
	}
}
