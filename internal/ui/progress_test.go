package ui

import (
	"strings"
	"testing"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("checking", files, make(chan Event)).(*progressModel)
}

func TestApplyTracksFiles(t *testing.T) {
	m := newModel("a.wgsl", "b.wgsl")
	m.apply(Event{File: "a.wgsl", Stage: StageValidate, Status: StatusWorking})
	if got := m.rows[0].state(); got != "validating" {
		t.Fatalf("state = %q", got)
	}
	m.apply(Event{File: "a.wgsl", Stage: StageValidate, Status: StatusError})
	m.apply(Event{File: "b.wgsl", Stage: StageLoad, Status: StatusDone})
	if got := m.percent(); got != (1.0+0.25)/2 {
		t.Fatalf("percent = %v", got)
	}
	m.apply(Event{File: "unknown.wgsl", Stage: StageValidate, Status: StatusDone})
	if len(m.recent) != 2 {
		t.Fatalf("recent = %v", m.recent)
	}
}

func TestTallyCountsCachedAndFailed(t *testing.T) {
	m := newModel("a.wgsl", "b.wgsl", "c.wgsl")
	m.apply(Event{File: "a.wgsl", Stage: StageValidate, Status: StatusDone, Cached: true})
	m.apply(Event{File: "b.wgsl", Stage: StageValidate, Status: StatusError})
	m.apply(Event{File: "c.wgsl", Stage: StageValidate, Status: StatusWorking})
	if got := m.tally(); got != (tally{validated: 2, failed: 1, cached: 1}) {
		t.Fatalf("tally = %+v", got)
	}
	if got := m.rows[0].state(); got != "cached" {
		t.Fatalf("state = %q", got)
	}
}

func TestViewKeepsFailuresListed(t *testing.T) {
	files := []string{"broken.wgsl"}
	for i := range recentRows + 2 {
		files = append(files, string(rune('a'+i))+".wgsl")
	}
	m := newModel(files...)
	m.apply(Event{File: "broken.wgsl", Stage: StageValidate, Status: StatusError})
	for _, f := range files[1:] {
		m.apply(Event{File: f, Stage: StageValidate, Status: StatusDone})
	}
	m.finished = true
	view := m.View()
	if !strings.Contains(view, "done checking") || !strings.Contains(view, "broken.wgsl") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	if strings.Contains(view, "a.wgsl") {
		t.Fatalf("oldest file should have scrolled out:\n%s", view)
	}
}

func TestClipKeepsFileName(t *testing.T) {
	if got := clip("shaders/lighting/pbr.wgsl", 12); got != ".../pbr.wgsl" {
		t.Fatalf("clip = %q", got)
	}
	if got := clip("a.wgsl", 10); got != "a.wgsl" {
		t.Fatalf("clip = %q", got)
	}
}
