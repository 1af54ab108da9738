package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/pipeline-metadata/plmd"
)

func newTestBrowser(t *testing.T) *browseModel {
	t.Helper()
	data, err := plmd.Encode(&plmd.Document{
		Layout: []plmd.Set{{Descriptors: []plmd.Descriptor{
			{Binding: 4, Type: plmd.DescriptorStorageBuffer, Stages: plmd.StageFragment},
		}}},
		User: []plmd.UserPair{{Key: "foo", Value: "bar"}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	md, err := plmd.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(md.Destroy)

	m := newBrowseModel(newReport("test.plmd", "none", data, md), md)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseSections(t *testing.T) {
	m := newTestBrowser(t)

	view := m.View()
	for _, want := range []string{"test.plmd", "magic", "0xDEADBEEF", "user metadata"} {
		if !strings.Contains(view, want) {
			t.Errorf("header view missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
	if view := m.View(); !strings.Contains(view, "storage-buffer") {
		t.Errorf("layout view missing descriptor:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Errorf("selected = %d after moving past the top", m.selected)
	}
}

func TestBrowseLookup(t *testing.T) {
	m := newTestBrowser(t)

	m.Update(keys("/"))
	if m.state != stateLookup {
		t.Fatalf("state = %d, want lookup", m.state)
	}
	m.Update(keys("foo"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateBrowse {
		t.Errorf("state = %d after enter", m.state)
	}
	if !strings.Contains(m.lookup, `"bar"`) {
		t.Errorf("lookup = %q", m.lookup)
	}

	m.Update(keys("/"))
	m.Update(keys("missing"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.lookup, "no user metadata") {
		t.Errorf("lookup = %q", m.lookup)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(t)
	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
