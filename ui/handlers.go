package ui

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"

	"bmidash/app"
	"bmidash/domain/core"
	apperrors "bmidash/internal/errors"
	"bmidash/internal/piechart"

	"github.com/gin-gonic/gin"
)

const downloadPrompt = "To begin, click the 'Download Dataset' button."

// indexPage is the data behind index.html
type indexPage struct {
	Title      string
	Prompt     string
	Error      string
	Dashboard  *app.Dashboard
	Chart      template.HTML
	ChartError string
	Style      piechart.Options
	Limits     styleLimits
}

type styleLimits struct {
	MinTitle, MaxTitle int
	MinLabel, MaxLabel int
}

var limits = styleLimits{
	MinTitle: piechart.MinTitleFontSize,
	MaxTitle: piechart.MaxTitleFontSize,
	MinLabel: piechart.MinLabelFontSize,
	MaxLabel: piechart.MaxLabelFontSize,
}

// handleIndex runs one render pass for the caller's session
func (s *Server) handleIndex(c *gin.Context) {
	state := sessionState(c)
	style := chartOptions(c)

	dashboard, err := s.dashboard.Render(c.Request.Context(), state)
	if err != nil {
		log.Printf("[Index] Render pass failed: %v", err)
		hint := ""
		if core.IsTableError(err) {
			hint = "The downloaded file is not a Gender/Height/Weight table. Check DATASET_URL."
		}
		s.renderTemplate(c, http.StatusInternalServerError, "error.html", gin.H{
			"Title":   pageTitle,
			"Message": "Error loading dataset: " + err.Error(),
			"Hint":    hint,
		})
		return
	}

	page := indexPage{
		Title:     pageTitle,
		Prompt:    downloadPrompt,
		Dashboard: dashboard,
		Style:     style,
		Limits:    limits,
	}

	if dashboard.Ready {
		var buf bytes.Buffer
		if err := piechart.Render(&buf, dashboard.Slices, style); err != nil {
			if !errors.Is(err, piechart.ErrNoSlices) {
				log.Printf("[Index] Chart rendering failed: %v", err)
			}
			page.ChartError = "No overweight individuals to chart."
		} else {
			// piechart escapes every text node it hands to go-chart
			page.Chart = template.HTML(buf.String())
		}
	}

	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

// handleDownload acquires the dataset for the caller's session
func (s *Server) handleDownload(c *gin.Context) {
	state := sessionState(c)

	if err := s.dashboard.Download(c.Request.Context(), state); err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsAcquisitionError(err) {
			status = http.StatusBadGateway
		}
		s.renderTemplate(c, status, "index.html", indexPage{
			Title:     pageTitle,
			Prompt:    downloadPrompt,
			Error:     "Error downloading dataset: " + err.Error(),
			Dashboard: &app.Dashboard{Ready: false},
			Style:     piechart.DefaultOptions(),
			Limits:    limits,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
