package server

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ersonp/lore-graph/internal/infrastructure/metrics"
	"github.com/ersonp/lore-graph/internal/web"
)

func (s *Server) registerRoutes(prom *metrics.Prometheus) {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/graph.json", s.handleGraph("application/json; charset=utf-8", func(sn snapshot) []byte { return sn.json }))
	s.echo.GET("/graph.gml", s.handleGraph("text/plain; charset=utf-8", func(sn snapshot) []byte { return sn.gml }))
	s.echo.StaticFS("/static", web.Static())

	// Health check route
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if prom != nil {
		s.echo.GET("/metrics", echo.WrapHandler(prom.Handler()))
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	page := web.Page{}
	if sn := s.current(); sn.doc != nil {
		page.Title = sn.doc.Title
		page.Background = sn.doc.Config.Layout.Background
	}

	var buf bytes.Buffer
	if err := web.RenderIndex(&buf, page); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleGraph(contentType string, body func(snapshot) []byte) echo.HandlerFunc {
	return func(c echo.Context) error {
		sn := s.current()
		c.Response().Header().Set("Cache-Control", "no-store")
		if sn.err != nil {
			return c.String(http.StatusServiceUnavailable, sn.err.Error())
		}
		return c.Blob(http.StatusOK, contentType, body(sn))
	}
}
