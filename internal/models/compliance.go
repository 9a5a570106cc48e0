package models

import "time"

// ComplianceStatus is the per-frame result of the presence check.
type ComplianceStatus struct {
	OK      bool     `json:"ok"`
	Text    string   `json:"text"`
	Missing []string `json:"missing"`
	Present []string `json:"present"`
}

// FrameSnapshot is what the monitor publishes about the last processed frame.
type FrameSnapshot struct {
	FrameMetadata
	Detections    []Detection      `json:"detections"`
	Status        ComplianceStatus `json:"status"`
	InferenceTime time.Duration    `json:"inference_time_ns"`
}
