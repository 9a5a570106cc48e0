package alerts

import (
	"fmt"
	"strings"
	"time"

	"epi-monitor-go/internal/models"
)

// SeverityFor grades a violation by how many required items are missing.
func SeverityFor(missing []string) models.AlertSeverity {
	if len(missing) > 1 {
		return models.AlertSeverityHigh
	}
	return models.AlertSeverityMedium
}

// BuildPPEAlert creates the payload published when a frame lacks required PPE.
func BuildPPEAlert(meta models.FrameMetadata, kept []models.Detection, st models.ComplianceStatus, now time.Time) models.AlertPayload {
	missing := append([]string(nil), st.Missing...)
	present := append([]string{}, st.Present...)

	return models.AlertPayload{
		CameraID: meta.CameraID,
		FrameID:  meta.FrameID,
		Alert: models.Alert{
			AlertType:      models.AlertTypePPEViolation,
			Severity:       SeverityFor(missing),
			Title:          "EPI ausente",
			Description:    fmt.Sprintf("Faltando: %s", strings.Join(missing, ", ")),
			AutoGenerated:  true,
			Timestamp:      now,
			PPEViolations:  missing,
			PPEPresent:     present,
			ViolationCount: len(missing),
		},
		Detections: append([]models.Detection{}, kept...),
		Metadata: map[string]interface{}{
			"frame_timestamp": meta.Timestamp,
			"frame_dimensions": map[string]interface{}{
				"width":  meta.Width,
				"height": meta.Height,
			},
			"status_text": st.Text,
		},
	}
}
