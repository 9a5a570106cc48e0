// Package compliance filters detections to the target classes and decides
// whether the required PPE is visible in a frame.
package compliance

import (
	"strings"

	"epi-monitor-go/internal/models"
	"epi-monitor-go/internal/services/targets"
)

const (
	ItemHelmet  = "Helmet"
	ItemGlasses = "Glasses"

	OKText        = "EPI OK (Helmet + Glasses)"
	MissingPrefix = "FALTANDO: "
)

// Filter keeps the detections whose class id is in the target set.
func Filter(dets []models.Detection, set targets.Set) []models.Detection {
	kept := make([]models.Detection, 0, len(dets))
	for _, d := range dets {
		if set.Contains(d.ClassID) {
			kept = append(kept, d)
		}
	}
	return kept
}

// requirement ties a reported item to the model label that satisfies it.
type requirement struct {
	item  string
	label string
}

// Rules holds the required items resolved against a target set.
type Rules struct {
	reqs []requirement
}

// NewRules picks, for each item, the first target label containing its keyword.
// Items without such a label are never reported missing.
func NewRules(set targets.Set) Rules {
	var r Rules
	for _, kw := range []struct{ item, keyword string }{
		{ItemHelmet, "helmet"},
		{ItemGlasses, "glass"},
	} {
		for _, l := range set.Labels {
			if strings.Contains(strings.ToLower(l), kw.keyword) {
				r.reqs = append(r.reqs, requirement{item: kw.item, label: l})
				break
			}
		}
	}
	return r
}

// Evaluate builds the frame status from already filtered detections.
func (r Rules) Evaluate(kept []models.Detection) models.ComplianceStatus {
	seen := make(map[string]struct{}, len(kept))
	present := make([]string, 0, len(kept))
	for _, d := range kept {
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		present = append(present, d.Label)
	}

	missing := []string{}
	for _, req := range r.reqs {
		if _, ok := seen[req.label]; !ok {
			missing = append(missing, req.item)
		}
	}

	st := models.ComplianceStatus{
		OK:      len(missing) == 0,
		Missing: missing,
		Present: present,
	}
	if st.OK {
		st.Text = OKText
	} else {
		st.Text = MissingPrefix + strings.Join(missing, ", ")
	}
	return st
}

// Evaluate is Filter followed by the presence check for set.
func Evaluate(dets []models.Detection, set targets.Set) ([]models.Detection, models.ComplianceStatus) {
	kept := Filter(dets, set)
	return kept, NewRules(set).Evaluate(kept)
}
