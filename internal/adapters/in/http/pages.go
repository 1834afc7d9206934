package http

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/labstack/echo/v4"
)

const (
	pageTrack       = "track.html"
	pageReview      = "review.html"
	pageResetForm   = "reset_form.html"
	pageResetResult = "reset_result.html"
)

//go:embed templates/*.html
var templateFS embed.FS

type formPage struct {
	Action string
}

type resetResultPage struct {
	Success bool
	Message string
}

// pageRenderer renders the embedded HTML pages for echo.Context.Render.
type pageRenderer struct {
	templates *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{templates: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// link builds an absolute URL on the public domain carrying token.
func (s *Server) link(path, token string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     s.domain,
		Path:     path,
		RawQuery: url.Values{"token": {token}}.Encode(),
	}
	return u.String()
}
