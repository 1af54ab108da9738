package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/pipeline-metadata/plmd"
)

// report is what dump prints for one blob.
type report struct {
	File        string           `json:"file" yaml:"file" cbor:"file"`
	Compression string           `json:"compression" yaml:"compression" cbor:"compression"`
	Size        int              `json:"size" yaml:"size" cbor:"size"`
	Fingerprint plmd.Fingerprint `json:"fingerprint" yaml:"fingerprint" cbor:"fingerprint"`
	Header      plmd.Header      `json:"header" yaml:"header" cbor:"header"`
	Document    *plmd.Document   `json:"document" yaml:"document" cbor:"document"`
}

func newReport(file, compression string, data []byte, md *plmd.Metadata) *report {
	return &report{
		File:        file,
		Compression: compression,
		Size:        len(data),
		Fingerprint: plmd.FingerprintOf(data),
		Header:      md.Header(),
		Document:    md.Document(),
	}
}

var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("plmd: cbor encoder initialization failed: " + err.Error())
	}
}

func writeReport(w io.Writer, format string, r *report, styled bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := cborMode.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text":
		_, err := io.WriteString(w, renderText(r, newPalette(styled)))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// palette renders text dump fragments. Unstyled palettes pass text through.
type palette struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
}

func newPalette(styled bool) palette {
	if !styled {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain}
	}
	return palette{
		title:   titleStyle,
		section: sectionStyle,
		label:   typeStyle,
		value:   valueStyle,
		dim:     helpStyle,
	}
}

func renderText(r *report, p palette) string {
	var b strings.Builder
	doc := r.Document

	fmt.Fprintf(&b, "%s %s\n", p.title.Render("pipeline metadata"), r.File)
	fmt.Fprintf(&b, "  %s %s", p.label.Render("size       "), humanize.IBytes(uint64(r.Size)))
	if r.Compression != "none" {
		fmt.Fprintf(&b, " %s", p.dim.Render("("+r.Compression+")"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %d.%d\n", p.label.Render("version    "), r.Header.VersionMajor, r.Header.VersionMinor)
	fmt.Fprintf(&b, "  %s %s\n", p.label.Render("fingerprint"), r.Fingerprint)

	b.WriteString("\n")
	b.WriteString(renderLayout(doc, p))
	b.WriteString("\n")
	b.WriteString(renderCIS("image -> cis", doc.ImageToCIS, p))
	b.WriteString("\n")
	b.WriteString(renderCIS("sampler -> cis", doc.SamplerToCIS, p))
	b.WriteString("\n")
	b.WriteString(renderUser(doc, p))
	return b.String()
}

func renderLayout(doc *plmd.Document, p palette) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.section.Render("layout"), p.dim.Render(count(len(doc.Layout), "set")))
	for i, set := range doc.Layout {
		fmt.Fprintf(&b, "  set %d %s\n", i, p.dim.Render(count(len(set.Descriptors), "descriptor")))
		for _, d := range set.Descriptors {
			fmt.Fprintf(&b, "    binding %-3d %s %s\n", d.Binding,
				p.label.Render(d.Type.String()), p.dim.Render("["+d.Stages.String()+"]"))
		}
	}
	return b.String()
}

func renderCIS(title string, entries []plmd.CISBinding, p palette) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.section.Render(title), p.dim.Render(count(len(entries), "entry")))
	for _, e := range entries {
		ids := make([]string, len(e.CombinedIDs))
		for i, id := range e.CombinedIDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&b, "  set %d binding %d -> %s\n", e.Set, e.Binding,
			p.value.Render("["+strings.Join(ids, " ")+"]"))
	}
	return b.String()
}

func renderUser(doc *plmd.Document, p palette) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.section.Render("user metadata"), p.dim.Render(count(len(doc.User), "entry")))
	for _, u := range doc.User {
		fmt.Fprintf(&b, "  %s = %s\n", p.label.Render(u.Key), p.value.Render(fmt.Sprintf("%q", u.Value)))
	}
	return b.String()
}

func count(n int, noun string) string {
	if n == 1 {
		return "(1 " + noun + ")"
	}
	if strings.HasSuffix(noun, "y") {
		noun = strings.TrimSuffix(noun, "y") + "ie"
	}
	return fmt.Sprintf("(%d %ss)", n, noun)
}
