package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"epi-monitor-go/internal/models"
)

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, models.AlertSeverityMedium, SeverityFor([]string{"Glasses"}))
	assert.Equal(t, models.AlertSeverityHigh, SeverityFor([]string{"Helmet", "Glasses"}))
}

func TestBuildPPEAlert(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	meta := models.FrameMetadata{FrameID: 7, CameraID: "webcam-0", Width: 640, Height: 480}
	st := models.ComplianceStatus{Text: "FALTANDO: Helmet, Glasses", Missing: []string{"Helmet", "Glasses"}, Present: []string{}}

	p := BuildPPEAlert(meta, nil, st, now)

	assert.Equal(t, models.AlertSeverityHigh, p.Alert.Severity)
	assert.Equal(t, "Faltando: Helmet, Glasses", p.Alert.Description)
	assert.Equal(t, 2, p.Alert.ViolationCount)
	assert.Equal(t, now, p.Alert.Timestamp)
	assert.NotNil(t, p.Detections)
	assert.NotNil(t, p.Alert.PPEPresent)
	assert.Equal(t, "FALTANDO: Helmet, Glasses", p.Metadata["status_text"])
}
