package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/onionskin/internal/onion"
)

// Report summarizes one bake and the overlays visible at one frame.
type Report struct {
	Target string      `yaml:"target"`
	Kind   string      `yaml:"kind"`
	Mode   onion.Mode  `yaml:"mode"`
	At     onion.Frame `yaml:"at"`
	Frames []FrameRow  `yaml:"frames"`
}

// FrameRow is one cached frame.
type FrameRow struct {
	Frame     onion.Frame `yaml:"frame"`
	DirectKey bool        `yaml:"direct_key,omitempty"`
	Vertices  int         `yaml:"vertices"`
	Triangles int         `yaml:"triangles"`
	Drawn     bool        `yaml:"drawn"`
	Ramp      string      `yaml:"ramp,omitempty"`
	Alpha     *float32    `yaml:"alpha,omitempty"` // set on drawn rows, zero included
}

func buildReport(b *onion.Bake, at onion.Frame, d onion.Display) Report {
	r := Report{
		Target: string(b.Target.ID()),
		Kind:   b.Target.Kind.String(),
		Mode:   b.Mode,
		At:     at,
	}
	for _, f := range b.Frames {
		snap := b.Snapshots[f]
		row := FrameRow{
			Frame:     f,
			DirectKey: b.DirectKeys.Has(f),
			Vertices:  snap.VertexCount(),
			Triangles: snap.TriangleCount(),
		}
		if dec := onion.Decide(at, f, b.DirectKeys, d); dec.Draw {
			row.Drawn = true
			row.Ramp = dec.Ramp.String()
			alpha := dec.Color.A
			row.Alpha = &alpha
		}
		r.Frames = append(r.Frames, row)
	}
	return r
}

func writeTable(w io.Writer, r Report) error {
	fmt.Fprintf(w, "target %s (%s), mode %s, previewed at frame %d\n\n", r.Target, r.Kind, r.Mode, r.At)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tKEY\tVERTS\tTRIS\tDRAWN\tRAMP\tALPHA")
	for _, row := range r.Frames {
		key, drawn, ramp, alpha := "", "", "", ""
		if row.DirectKey {
			key = "*"
		}
		if row.Drawn {
			drawn = "yes"
			ramp = row.Ramp
		}
		if row.Alpha != nil {
			alpha = fmt.Sprintf("%.2f", *row.Alpha)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			row.Frame, key, row.Vertices, row.Triangles, drawn, ramp, alpha)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
