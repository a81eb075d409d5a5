package model

import "github.com/google/uuid"

// Point2D represents a 2D coordinate in schematic units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trace represents one routed wire path: an ordered polyline through
// schematic space, tied to the connection it realizes by a stable pair id.
type Trace struct {
	ID     string    `json:"id"`     // Stable pair id, unique within a trace set
	Net    string    `json:"net"`    // Net (connectivity group) this trace belongs to
	Points []Point2D `json:"points"` // Polyline vertices in order
}

func NewTrace(net string, points []Point2D) Trace {
	return Trace{
		ID:     uuid.New().String()[:8],
		Net:    net,
		Points: points,
	}
}

// ClonePoints returns a deep copy of the trace geometry. Transforms operate
// on copies so the authoritative trace set is only written by its owner.
func (t Trace) ClonePoints() []Point2D {
	pts := make([]Point2D, len(t.Points))
	copy(pts, t.Points)
	return pts
}

// BoundingBox returns the min and max corners of the trace polyline.
func (t Trace) BoundingBox() (min, max Point2D) {
	if len(t.Points) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = t.Points[0], t.Points[0]
	for _, p := range t.Points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Port is a named connection point on a device boundary.
type Port struct {
	ID string  `json:"id"`
	X  float64 `json:"x"` // Absolute schematic position
	Y  float64 `json:"y"`
}

// Device represents a placed schematic component (chip, connector, symbol).
type Device struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"` // Top-left corner
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ports  []Port  `json:"ports"`
}

func NewDevice(label string, x, y, w, h float64) Device {
	return Device{
		ID:     uuid.New().String()[:8],
		Label:  label,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
}

// Connection declares that two ports belong to the same net. Connections are
// routing input only; cleanup never changes connectivity.
type Connection struct {
	ID       string `json:"id"`
	Net      string `json:"net"`
	FromPort string `json:"from_port"`
	ToPort   string `json:"to_port"`
}

// InputProblem is the immutable routing context: device placement and the
// connections the traces realize. Cleanup reads it for collision context and
// visualization; it is never mutated.
type InputProblem struct {
	Devices     []Device     `json:"devices"`
	Connections []Connection `json:"connections"`
}

// NetLabelPlacement marks the rectangle occupied by a rendered net label.
// Traces must keep clear of these boxes when their geometry is rewritten.
type NetLabelPlacement struct {
	Net    string  `json:"net"`
	X      float64 `json:"x"` // Top-left corner
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MergedNetLabels maps a merged label key to the set of net ids it subsumes.
// Produced by label placement upstream and passed through unchanged.
type MergedNetLabels map[string][]string

// Subsumes reports whether the merged label identified by key covers the
// given net id.
func (m MergedNetLabels) Subsumes(key, net string) bool {
	for _, n := range m[key] {
		if n == net {
			return true
		}
	}
	return false
}

// CleanupSettings holds cleanup pipeline configuration.
type CleanupSettings struct {
	PaddingBuffer     float64 `json:"padding_buffer"`      // Clearance margin around obstacles
	UntangleMaxPasses int     `json:"untangle_max_passes"` // Full passes before the untangler gives up
	UntangleNudge     float64 `json:"untangle_nudge"`      // Offset applied when separating crossing segments
	MaxSteps          int     `json:"max_steps"`           // Upper bound for run-to-completion drivers
	MergeOutputByNet  bool    `json:"merge_output_by_net"` // Apply the explicit net merge after cleanup
	Theme             string  `json:"theme"`               // "light", "dark", "system"
}

func DefaultSettings() CleanupSettings {
	return CleanupSettings{
		PaddingBuffer:     0.2,
		UntangleMaxPasses: 8,
		UntangleNudge:     0.4,
		MaxSteps:          10000,
		MergeOutputByNet:  false,
		Theme:             "system",
	}
}

// Project ties everything together for save/load.
type Project struct {
	Name       string              `json:"name"`
	Problem    InputProblem        `json:"problem"`
	Traces     []Trace             `json:"traces"`
	Labels     []NetLabelPlacement `json:"labels,omitempty"`
	MergedNets MergedNetLabels     `json:"merged_nets,omitempty"`
	Settings   CleanupSettings     `json:"settings"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Traces:   []Trace{},
		Settings: DefaultSettings(),
	}
}
