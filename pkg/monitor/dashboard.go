// pkg/monitor/dashboard.go
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/market-radar/dataquality/pkg/model"
)

// GenerateHealthDashboard renders a health report as a plain-text dashboard
// suitable for terminals and log capture.
func GenerateHealthDashboard(report *model.HealthReport) string {
	dashboard := fmt.Sprintf(`
Pipeline Health Dashboard
=========================
Generated:               %s
Window:                  %s
Alert Level:             %s

Execution Summary
-----------------
Total Executions:        %d
Failed Executions:       %d
Success Rate:            %.1f%%
Error Rate:              %.1f%%

Quality Summary
---------------
Avg Quality Score:       %.1f
Avg Transform Rate:      %.1f%%
Avg Duration:            %.1fs
`,
		report.GeneratedAt.Format(time.RFC3339),
		formatWindow(report.Window),
		report.LevelName,

		report.TotalExecutions,
		report.FailedExecutions,
		report.SuccessRate,
		report.ErrorRate,

		report.AvgQualityScore,
		report.AvgTransformRate,
		report.AvgDuration)

	var sb strings.Builder
	sb.WriteString(dashboard)

	if len(report.Alerts) > 0 {
		sb.WriteString("\nActive Alerts\n-------------\n")
		for _, a := range report.Alerts {
			sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", a.Severity, a.Type, a.Message))
		}
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommendations\n---------------\n")
		for _, r := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	return sb.String()
}

func formatWindow(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 24 && hours%24 == 0 {
		return fmt.Sprintf("%dd", hours/24)
	}
	return fmt.Sprintf("%dh", hours)
}
