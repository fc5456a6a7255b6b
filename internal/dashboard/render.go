package dashboard

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"job-hunter/internal/domain/metrics"
)

const (
	Title    = "Job Hunter Pro Dashboard"
	Subtitle = "Sistema de búsqueda automatizada de empleos"

	LabelTotalJobs    = "Empleos Totales"
	LabelAverageScore = "Puntaje Promedio"
	LabelTopOffers    = "Mejores Ofertas"

	InitializingBanner = "El sistema está iniciando. Los datos aparecerán después de la primera búsqueda."
)

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type View struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Metrics      []Metric `json:"metrics"`
	Banner       string   `json:"banner,omitempty"`
	Initializing bool     `json:"initializing"`
}

// Render maps a summary onto the three dashboard tiles. It holds no state;
// the same summary always yields the same view.
func Render(s metrics.Summary) View {
	v := View{
		Title:    Title,
		Subtitle: Subtitle,
		Metrics: []Metric{
			{Label: LabelTotalJobs, Value: strconv.Itoa(s.TotalCount)},
			{Label: LabelAverageScore, Value: FormatScore(s.AverageScore)},
			{Label: LabelTopOffers, Value: strconv.Itoa(s.TopOffersCount)},
		},
	}
	if s.TotalCount == 0 {
		v.Banner = InitializingBanner
		v.Initializing = true
	}
	return v
}

func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

func WriteHTML(w io.Writer, v View) error {
	return pageTemplate.ExecuteTemplate(w, "dashboard.html", v)
}
