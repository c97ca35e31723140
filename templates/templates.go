// Package templates holds the HTML views rendered by the web handlers
package templates

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"xmail/utils"
)

//go:embed *.html layouts/*.html
var FS embed.FS

// NewEngine builds the view engine. An empty dir serves the embedded
// templates; otherwise templates are read from dir and reloaded on change.
func NewEngine(dir string) *html.Engine {
	var engine *html.Engine
	if dir == "" {
		engine = html.NewFileSystem(http.FS(FS), ".html")
	} else {
		engine = html.New(dir, ".html")
		engine.Reload(true)
	}

	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("t", utils.T)
	engine.AddFunc("tCount", func(loc *i18n.Localizer, id string, n int) string {
		return utils.TWithData(loc, id, map[string]interface{}{"Count": n})
	})
	engine.AddFunc("css", func(s string) template.CSS {
		return template.CSS(s)
	})
	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})

	return engine
}
