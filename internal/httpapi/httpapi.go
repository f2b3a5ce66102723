// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package httpapi exposes the composition pipeline over HTTP: a Gin
// router with CORS enabled, one POST endpoint that runs a generation and
// streams back the resulting MIDI file plus its quality report as
// headers, and a health check.
package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Michael-F-Ellis/midigen/internal/duration"
	"github.com/Michael-F-Ellis/midigen/internal/model"
	"github.com/Michael-F-Ellis/midigen/internal/orchestrator"
	"github.com/Michael-F-Ellis/midigen/internal/sessionstore"
)

// Server bundles the router with the dependencies its handlers need:
// where to write generated files and where session history persists.
type Server struct {
	Engine                  *gin.Engine
	OutputDir               string
	Store                   *sessionstore.Store
	MaxRefinementIterations int
}

// generateRequest is the JSON body for POST /api/generate.
type generateRequest struct {
	Action              string   `json:"action"`
	Genre               string   `json:"genre" binding:"required"`
	Mode                string   `json:"mode"`
	ScaleName           string   `json:"scale_name"`
	Root                int      `json:"root"`
	Tempo               int      `json:"tempo"`
	Energy              string   `json:"energy"`
	Emotions            []string `json:"emotions"`
	StyleDescriptors    []string `json:"style_descriptors"`
	CulturalStyle       string   `json:"cultural_style"`
	RequestedTrackCount int      `json:"track_count"`
	ExplicitInstruments []string `json:"instruments"`
	Duration            string   `json:"duration"` // free text, e.g. "90s", "2m", "16 bars"
	SessionID           string   `json:"session_id" binding:"required"`
}

// New builds the router with CORS and routes wired, following the
// teacher's origin-list-from-env pattern: CORS_ORIGINS is a comma
// separated list, defaulting to "*" for local development.
func New(outputDir string, store *sessionstore.Store, maxRefinementIterations int) *Server {
	r := gin.Default()

	originsEnv := os.Getenv("CORS_ORIGINS")
	if originsEnv == "" {
		originsEnv = "*"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(originsEnv, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	s := &Server{Engine: r, OutputDir: outputDir, Store: store, MaxRefinementIterations: maxRefinementIterations}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/generate", s.handleGenerate)
	}
	return s
}

// Run starts the server on addr (e.g. ":8080").
func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := toIntent(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history := model.NewSessionHistory()
	if s.Store != nil {
		history, err = s.Store.Load(intent.SessionID)
		if err != nil {
			logrus.WithError(err).Warn("loading session history, starting fresh")
			history = model.NewSessionHistory()
		}
	}

	opts := orchestrator.Options{OutputDir: s.OutputDir, MaxRefinementIterations: s.MaxRefinementIterations}
	path, report, updated, err := orchestrator.GenerateWithOptions(intent, history, opts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if s.Store != nil {
		if err := s.Store.Save(intent.SessionID, updated); err != nil {
			logrus.WithError(err).Warn("saving session history")
		}
	}

	c.Header("X-Quality-Overall", fmt.Sprintf("%.3f", report.Overall))
	c.Header("X-Needs-Refinement", fmt.Sprintf("%t", report.NeedsRefinement))
	c.FileAttachment(path, filepath.Base(path))
}

func toIntent(req generateRequest) (model.Intent, error) {
	action := model.ActionNew
	if req.Action != "" {
		action = model.Action(req.Action)
	}
	mode := model.ModeMajor
	if req.Mode != "" {
		mode = model.Mode(req.Mode)
	}
	energy := model.EnergyMedium
	if req.Energy != "" {
		energy = model.Energy(req.Energy)
	}
	dur := duration.Default()
	if req.Duration != "" {
		parsed, ok := duration.Parse(req.Duration)
		if !ok {
			return model.Intent{}, fmt.Errorf("could not parse duration %q", req.Duration)
		}
		dur = parsed
	}
	return model.Intent{
		Action:              action,
		Genre:               req.Genre,
		Mode:                mode,
		ScaleName:           req.ScaleName,
		Root:                req.Root,
		RequestedTempo:      req.Tempo,
		Energy:              energy,
		Emotions:            req.Emotions,
		StyleDescriptors:    req.StyleDescriptors,
		CulturalStyle:       req.CulturalStyle,
		RequestedTrackCount: req.RequestedTrackCount,
		ExplicitInstruments: req.ExplicitInstruments,
		Duration:            dur,
		SessionID:           req.SessionID,
	}, nil
}
