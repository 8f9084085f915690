package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/progressive"
	"github.com/casualjim/cfagui/provider"
	"github.com/casualjim/cfagui/provider/models"
	"github.com/gin-gonic/gin"
)

type runRequest struct {
	Messages []provider.Message `json:"messages"`
}

type progressiveRequest struct {
	Prompt string              `json:"prompt"`
	Stages []progressive.Stage `json:"stages"`
}

type modelInfo struct {
	Name         string              `json:"name"`
	Capabilities models.Capabilities `json:"capabilities"`
}

func errorResponse(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listModels(c *gin.Context) {
	names, err := s.runner.ListAvailableModels(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusBadGateway, err)
		return
	}

	out := make([]modelInfo, 0, len(names))
	for _, name := range names {
		out = append(out, modelInfo{Name: name, Capabilities: models.Get(name)})
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}

func (s *Server) createRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	stream(c, s.relay(ctx, s.runner.Execute(ctx, req.Messages)))
}

func (s *Server) createProgressive(c *gin.Context) {
	var req progressiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	seq, err := s.runner.ProgressiveGeneration(ctx, req.Prompt, req.Stages)
	if errors.Is(err, progressive.ErrNoStages) {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err)
		return
	}
	stream(c, s.relay(ctx, seq))
}

func (s *Server) streamTopic(c *gin.Context) {
	if s.topic == nil {
		errorResponse(c, http.StatusNotFound, ErrNoTopic)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ch := make(chan events.Event, 64)
	sub, err := s.topic.Subscribe(ctx, events.HookFunc(func(ctx context.Context, e events.Event) {
		select {
		case ch <- e:
		case <-ctx.Done():
		}
	}))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err)
		return
	}
	defer sub.Unsubscribe()

	stream(c, func(yield func(events.Event) bool) {
		for {
			select {
			case e := <-ch:
				if !yield(e) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})
}
