package models

import (
	"encoding/json"
	"fmt"
	"image"
	"time"
)

// AlertType represents the kinds of alerts the monitor can raise
type AlertType string

const (
	AlertTypePPEViolation AlertType = "PPE_VIOLATION"
)

// AlertSeverity represents the severity level of alerts
type AlertSeverity string

const (
	AlertSeverityMedium AlertSeverity = "MEDIUM"
	AlertSeverityHigh   AlertSeverity = "HIGH"
)

// Detection is one object found by the model in a frame, in frame pixel coordinates.
type Detection struct {
	ClassID int
	Label   string
	Score   float32
	Box     image.Rectangle
}

// Caption is the text drawn above the box.
func (d Detection) Caption() string {
	return fmt.Sprintf("%s %.2f", d.Label, d.Score)
}

type detectionJSON struct {
	ClassID int     `json:"class_id"`
	Label   string  `json:"label"`
	Score   float32 `json:"score"`
	BBox    [4]int  `json:"bbox"`
}

// MarshalJSON encodes the box as [x1, y1, x2, y2].
func (d Detection) MarshalJSON() ([]byte, error) {
	return json.Marshal(detectionJSON{
		ClassID: d.ClassID,
		Label:   d.Label,
		Score:   d.Score,
		BBox:    [4]int{d.Box.Min.X, d.Box.Min.Y, d.Box.Max.X, d.Box.Max.Y},
	})
}

func (d *Detection) UnmarshalJSON(data []byte) error {
	var v detectionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d.ClassID = v.ClassID
	d.Label = v.Label
	d.Score = v.Score
	d.Box = image.Rect(v.BBox[0], v.BBox[1], v.BBox[2], v.BBox[3])
	return nil
}

// FrameMetadata contains frame-level information
type FrameMetadata struct {
	FrameID   int64     `json:"frame_id"`
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CameraID  string    `json:"camera_id"`
}

// AlertPayload represents the structure sent to NATS
type AlertPayload struct {
	CameraID   string                 `json:"camera_id"`
	Alert      Alert                  `json:"alert"`
	FrameID    int64                  `json:"frame_id"`
	Detections []Detection            `json:"detections"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`

	// ContextImage is a base64 JPEG data URL of the annotated frame.
	ContextImage *string `json:"context_image,omitempty"`
}

// Alert represents the alert information
type Alert struct {
	AlertType     AlertType     `json:"alert_type"`
	Severity      AlertSeverity `json:"severity"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	AutoGenerated bool          `json:"auto_generated"`
	Timestamp     time.Time     `json:"timestamp"`

	PPEViolations  []string `json:"ppe_violations"`
	PPEPresent     []string `json:"ppe_present"`
	ViolationCount int      `json:"violation_count"`
}

// AlertCooldownKey represents a unique key for alert cooldown tracking
type AlertCooldownKey struct {
	CameraID  string
	AlertType AlertType
	Missing   string
}

// String returns a string representation of the cooldown key
func (k AlertCooldownKey) String() string {
	return k.CameraID + "|" + string(k.AlertType) + "|" + k.Missing
}

// MessagePublisher interface for publishing alerts
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
