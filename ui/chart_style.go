package ui

import (
	"log"

	"bmidash/internal/piechart"

	"github.com/gin-gonic/gin"
)

// chartQuery is the sidebar form as it arrives in the query string
type chartQuery struct {
	Title         string `form:"title"`
	TitleFontSize int    `form:"title_font_size"`
	LabelFontSize int    `form:"label_font_size"`
	Color         string `form:"color"`
}

// chartOptions reads the styling controls. Missing or malformed values keep their
// defaults; an explicitly empty title stays empty.
func chartOptions(c *gin.Context) piechart.Options {
	opts := piechart.DefaultOptions()

	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Printf("[ChartStyle] Ignoring malformed styling parameters: %v", err)
		return opts
	}

	if title, ok := c.GetQuery("title"); ok {
		opts.Title = title
	}
	if q.TitleFontSize != 0 {
		opts.TitleFontSize = q.TitleFontSize
	}
	if q.LabelFontSize != 0 {
		opts.LabelFontSize = q.LabelFontSize
	}
	if q.Color != "" {
		opts.Color = q.Color
	}

	return opts.Normalize()
}
