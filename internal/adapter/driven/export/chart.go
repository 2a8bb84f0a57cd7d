package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	chartTitle    = "Monthly Costs per Account (" + entity.CostUnit + ")"
	allPlotsName  = "all_plots.png"
	allPlotsDPI   = 120
	allPlotsWidth = 1920
	allPlotsHigh  = 1080
)

var errNoTotals = errors.New("no monthly totals to plot")

// ExportMonthlyChart grava pngs/monthly_<profile>.png com a linha de custo total por mês.
func (r *ExportRepositoryImpl) ExportMonthlyChart(profile string, totals []entity.AccountMonthlyTotal, outputDir string) (string, error) {
	if len(totals) == 0 {
		return "", errNoTotals
	}

	p, err := monthlyPlot(profile, totals, plotutil.Color(0))
	if err != nil {
		return "", err
	}
	p.Title.Text = chartTitle

	outputFilename, err := artifactPath(outputDir, pngDir, "monthly_"+safeName(profile)+".png")
	if err != nil {
		return "", err
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, outputFilename); err != nil {
		return "", fmt.Errorf("error writing chart: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportAllAccountsChart desenha um subgráfico por conta em pngs/all_plots.png.
func (r *ExportRepositoryImpl) ExportAllAccountsChart(reports []entity.AccountReport, outputDir string) (string, error) {
	var plots []*plot.Plot
	for i, report := range reports {
		if len(report.Totals) == 0 {
			continue
		}
		p, err := monthlyPlot(report.Profile, report.Totals, plotutil.Color(i))
		if err != nil {
			return "", err
		}
		plots = append(plots, p)
	}
	if len(plots) == 0 {
		return "", errNoTotals
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(plots)))))
	rows := int(math.Ceil(float64(len(plots)) / float64(cols)))

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(allPlotsWidth)/allPlotsDPI*vg.Inch, vg.Length(allPlotsHigh)/allPlotsDPI*vg.Inch),
		vgimg.UseDPI(allPlotsDPI),
	)
	dc := draw.New(img)

	titleStyle := plots[0].Title.TextStyle
	titleStyle.XAlign = text.XCenter
	titleStyle.YAlign = text.YTop
	dc.FillText(titleStyle, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Millimeter}, chartTitle)

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadTop:    vg.Points(24),
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
		PadX:      2 * vg.Millimeter,
		PadY:      2 * vg.Millimeter,
	}
	for i, p := range plots {
		p.Draw(tiles.At(dc, i%cols, i/cols))
	}

	outputFilename, err := artifactPath(outputDir, pngDir, allPlotsName)
	if err != nil {
		return "", err
	}
	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating chart file: %w", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return "", fmt.Errorf("error writing chart: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func monthlyPlot(label string, totals []entity.AccountMonthlyTotal, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = label
	p.Y.Label.Text = entity.CostUnit
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(totals))
	months := make([]string, len(totals))
	for i, t := range totals {
		pts[i].X = float64(i)
		pts[i].Y = t.TotalCost.InexactFloat64()
		months[i] = t.Month
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("error building chart for %s: %w", label, err)
	}
	line.Color = c
	points.Color = c
	points.Shape = draw.CircleGlyph{}

	p.Add(line, points)
	p.NominalX(months...)
	p.X.Tick.Label.Rotation = 10 * math.Pi / 180
	p.Y.Min = math.Min(p.Y.Min, 0)

	return p, nil
}
