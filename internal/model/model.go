package model

import (
	"math"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(q Point2D) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// WallSegment is a raw straight wall segment as delivered by the floor-plan
// import step. It has no identity beyond its coordinates.
type WallSegment struct {
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	EndX   float64 `json:"end_x"`
	EndY   float64 `json:"end_y"`
}

// Start returns the segment start point.
func (s WallSegment) Start() Point2D { return Point2D{X: s.StartX, Y: s.StartY} }

// End returns the segment end point.
func (s WallSegment) End() Point2D { return Point2D{X: s.EndX, Y: s.EndY} }

// Length returns the segment length in mm.
func (s WallSegment) Length() float64 { return s.Start().Distance(s.End()) }

// Chain is a consolidated straight wall run built from one or more raw
// segments. Chains are immutable once produced; ids are assigned from a
// deterministic sort of the merged runs, so identical input always yields
// identical ids.
type Chain struct {
	ID       int     `json:"id"`
	Start    Point2D `json:"start"`
	End      Point2D `json:"end"`
	LengthMm float64 `json:"length_mm"`
	Angle    float64 `json:"angle"` // radians, direction from Start to End
}

// Direction returns the unit vector from Start to End.
func (c Chain) Direction() Point2D {
	return Point2D{X: math.Cos(c.Angle), Y: math.Sin(c.Angle)}
}

// Normal returns the left-hand unit normal of the chain direction.
func (c Chain) Normal() Point2D {
	return Point2D{X: -math.Sin(c.Angle), Y: math.Cos(c.Angle)}
}

// PointAt returns the point at distance t (mm) from the chain start.
func (c Chain) PointAt(t float64) Point2D {
	d := c.Direction()
	return Point2D{X: c.Start.X + d.X*t, Y: c.Start.Y + d.Y*t}
}

// Midpoint returns the chain midpoint.
func (c Chain) Midpoint() Point2D { return c.PointAt(c.LengthMm / 2) }

// ChainEnd identifies one of the two ends of a chain.
type ChainEnd int

const (
	EndStart ChainEnd = iota // the Start endpoint
	EndEnd                   // the End endpoint
)

// JunctionKind classifies a node where chain endpoints meet.
type JunctionKind int

const (
	JunctionFreeEnd JunctionKind = iota // one incident chain end
	JunctionL                           // two incident ends
	JunctionT                           // three incident ends
	JunctionX                           // four or more incident ends
)

func (k JunctionKind) String() string {
	switch k {
	case JunctionL:
		return "L"
	case JunctionT:
		return "T"
	case JunctionX:
		return "X"
	default:
		return "free"
	}
}

// JunctionArm is one chain end incident to a junction node.
type JunctionArm struct {
	ChainID int      `json:"chain_id"`
	End     ChainEnd `json:"end"`
	Angle   float64  `json:"angle"` // radians, pointing from the node into the chain
}

// Junction is a classified node of the chain graph.
//
// For L junctions the primary/secondary assignment is a pure function of the
// two chain ids (lower id = primary); it never depends on discovery or
// iteration order because it feeds the row-parity corner templates.
type Junction struct {
	Node Point2D      `json:"node"`
	Kind JunctionKind `json:"kind"`
	Arms []JunctionArm `json:"arms"` // sorted by chain id, then end

	// L junctions only. Ortho reports whether the two arms meet near 90
	// degrees; only orthogonal corners receive the corner template.
	PrimaryChainID   int  `json:"primary_chain_id,omitempty"`
	SecondaryChainID int  `json:"secondary_chain_id,omitempty"`
	Ortho            bool `json:"ortho,omitempty"`

	// T junctions only: the perpendicular branch arm.
	BranchChainID int `json:"branch_chain_id,omitempty"`
}

// ChainClass tags a chain's role in the building footprint.
type ChainClass int

const (
	ClassUnresolved ChainClass = iota
	ClassPerimeter
	ClassPartition
)

func (c ChainClass) String() string {
	switch c {
	case ClassPerimeter:
		return "perimeter"
	case ClassPartition:
		return "partition"
	default:
		return "unresolved"
	}
}

// Classification is the footprint verdict for one chain. For perimeter
// chains ExteriorLeft records which side of the chain direction faces
// outward (true = the left-hand normal side). SideUncertain flags walls
// whose two sides are nearly equidistant from the footprint centroid, where
// the exterior call should be reviewed or overridden.
type Classification struct {
	ChainID       int        `json:"chain_id"`
	Class         ChainClass `json:"class"`
	ExteriorLeft  bool       `json:"exterior_left,omitempty"`
	SideUncertain bool       `json:"side_uncertain,omitempty"`
}

// OpeningKind distinguishes doors from windows.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Opening is a door or window bound to one chain. Offsets and sizes are mm;
// the vertical placement is [SillMm, SillMm+HeightMm] from the slab.
type Opening struct {
	ID       string      `json:"id"`
	ChainID  int         `json:"chain_id"`
	OffsetMm float64     `json:"offset_mm"` // distance from chain start
	WidthMm  float64     `json:"width_mm"`
	SillMm   float64     `json:"sill_mm"`
	HeightMm float64     `json:"height_mm"`
	Kind     OpeningKind `json:"kind"`
}

// NewOpening creates an opening with a fresh short id.
func NewOpening(chainID int, kind OpeningKind, offsetMm, widthMm, sillMm, heightMm float64) Opening {
	return Opening{
		ID:       uuid.New().String()[:8],
		ChainID:  chainID,
		OffsetMm: offsetMm,
		WidthMm:  widthMm,
		SillMm:   sillMm,
		HeightMm: heightMm,
		Kind:     kind,
	}
}

// Interval is a fillable span along a chain, in mm from the chain start.
type Interval struct {
	StartMm float64 `json:"start_mm"`
	EndMm   float64 `json:"end_mm"`
}

// Length returns the interval length.
func (iv Interval) Length() float64 { return iv.EndMm - iv.StartMm }

// PanelType classifies a placed panel.
type PanelType string

const (
	PanelFull      PanelType = "FULL"       // uncut standard panel
	PanelCutSingle PanelType = "CUT_SINGLE" // single cut piece (stagger stub or middle remainder)
	PanelCornerCut PanelType = "CORNER_CUT" // stagger-width stub consumed by a corner template
	PanelEndCut    PanelType = "END_CUT"    // cut piece terminating at a jamb or free chain end
)

// Panel is a 2D placement of one panel piece: a position along its chain, a
// row index, a width and a classification. Panels are created fresh on every
// recomputation and never mutated; manual overrides are applied by a
// separate patch step (see layout.ApplyOverrides).
type Panel struct {
	ChainID       int       `json:"chain_id"`
	Row           int       `json:"row"`
	StartMm       float64   `json:"start_mm"`
	WidthMm       float64   `json:"width_mm"`
	Type          PanelType `json:"type"`
	Side          string    `json:"side,omitempty"` // "exterior-left" / "exterior-right", empty when unresolved
	IsCornerPiece bool      `json:"is_corner_piece,omitempty"`
}

// EndMm returns the far edge of the panel along the chain.
func (p Panel) EndMm() float64 { return p.StartMm + p.WidthMm }

// TopoKind classifies a structural filler block.
type TopoKind string

const (
	TopoTee    TopoKind = "tee"    // branch seat at a T junction
	TopoCorner TopoKind = "corner" // filler at X nodes and skewed two-arm corners
	TopoJamb   TopoKind = "jamb"   // vertical opening boundary
	TopoLintel TopoKind = "lintel" // above an opening
	TopoSill   TopoKind = "sill"   // below a window
)

// TopoPlacement is a filler block at a junction or opening boundary, sized
// to the concrete core rather than the standard panel width. Topos are
// excluded from stagger and corner logic.
type TopoPlacement struct {
	ChainID int      `json:"chain_id"`
	Row     int      `json:"row"`
	StartMm float64  `json:"start_mm"`
	WidthMm float64  `json:"width_mm"`
	Kind    TopoKind `json:"kind"`
}

// WasteCut records a computed piece that fell below the minimum cut width
// and was therefore not placed. Its width still counts toward waste so that
// placed widths plus waste always equal the fillable length.
type WasteCut struct {
	ChainID int     `json:"chain_id"`
	Row     int     `json:"row"`
	WidthMm float64 `json:"width_mm"`
}
