package visualization

import (
	"fmt"
	"strings"

	"github.com/safehours/internal/compliance"
	"github.com/safehours/internal/logbook"
	"github.com/safehours/internal/timeutil"
)

type Visualizer struct{}

func New() *Visualizer {
	return &Visualizer{}
}

// GenerateWeekSVG renders the week's daily contact hours as a bar chart.
// Bars turn orange near the daily contact limit and red past it.
func (v *Visualizer) GenerateWeekSVG(report *logbook.WeekReport, th compliance.Thresholds) string {
	width := 600
	height := 300
	padding := 40
	barWidth := float64((width - 2*padding) / 7)
	maxHours := th.MaxContactHours
	if maxHours <= 0 {
		maxHours = compliance.DefaultMaxContactHours
	}

	dayNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var days []string
	var hours []float64

	for i := 0; i < 7; i++ {
		day := report.WeekStart.AddDate(0, 0, i)
		days = append(days, dayNames[i])
		hours = append(hours, report.DayHours[day.Format(timeutil.DateLayout)])
	}

	var bars strings.Builder
	for i, h := range hours {
		barHeight := (h / maxHours) * float64(height-2*padding)
		if barHeight > float64(height-2*padding) {
			barHeight = float64(height - 2*padding)
		}

		x := float64(padding) + float64(i)*barWidth + 5
		y := float64(height) - float64(padding) - barHeight

		color := "#4CAF50"
		if h > maxHours*0.8 {
			color = "#FF9800"
		}
		if h > maxHours {
			color = "#F44336"
		}

		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" rx="4"/>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#333">%.1fh</text>`,
			x, y, barWidth-10, barHeight, color,
			x+barWidth/2-5, int(y)-5, h))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#f5f7fa"/>
      <stop offset="100%%" style="stop-color:#e4e8ec"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">Weekly Duty Overview</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="#7f8c8d">%s - %s | Total: %.1fh</text>

  <!-- Daily contact limit -->
  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#E74C3C" stroke-width="2" stroke-dasharray="5,5"/>
  <text x="%d" y="%d" font-size="10" fill="#E74C3C">Contact Limit</text>

  <!-- Bars -->
  %s

  <!-- X-axis labels -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2,
		width/2, report.WeekStart.Format("Jan 2"), report.WeekEnd.Format("Jan 2"), report.TotalHours,
		padding, padding, width-padding, padding,
		width-padding+10, padding-5,
		bars.String(),
		v.generateXLabels(days, float64(padding), barWidth, float64(height-padding)),
	)
}

func (v *Visualizer) generateXLabels(days []string, startX, barWidth, y float64) string {
	var sb strings.Builder
	for i, day := range days {
		x := startX + float64(i)*barWidth + barWidth/2
		sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" text-anchor="middle" font-size="12" fill="#555">%s</text>
  `, x, y+20, day))
	}
	return sb.String()
}
