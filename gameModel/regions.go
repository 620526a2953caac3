package gameModel

import "fmt"

// Region is one of the fixed paintable zones of the illustration.
type Region int

const (
	Planet Region = iota
	Sun
	RocketTop
	RocketWindow
	RocketBottom
	RocketFlame
	AstronautHead
	AstronautTorso
	AstronautLegs

	NoRegion Region = -1
)

const NumRegions = 9

// Rect is an inclusive bounding box in the 800x600 illustration space.
type Rect struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

type RegionInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
}

var registry = [NumRegions]RegionInfo{
	Planet:         {"planet", "planet", Rect{30, 170, 30, 170}},
	Sun:            {"sun", "sun", Rect{580, 780, 20, 140}},
	RocketTop:      {"rocket-top", "rocket top", Rect{120, 320, 150, 235}},
	RocketWindow:   {"rocket-window", "rocket window", Rect{190, 270, 235, 285}},
	RocketBottom:   {"rocket-bottom", "rocket bottom", Rect{120, 320, 285, 375}},
	RocketFlame:    {"rocket-flame", "rocket flames", Rect{165, 275, 372, 435}},
	AstronautHead:  {"astronaut-head", "astronaut head", Rect{480, 580, 200, 290}},
	AstronautTorso: {"astronaut-torso", "astronaut torso", Rect{480, 580, 290, 375}},
	AstronautLegs:  {"astronaut-legs", "astronaut legs", Rect{480, 580, 360, 445}},
}

// Regions lists every region in registry order.
var Regions = [NumRegions]Region{
	Planet, Sun, RocketTop, RocketWindow, RocketBottom,
	RocketFlame, AstronautHead, AstronautTorso, AstronautLegs,
}

func (r Region) Valid() bool {
	return r >= 0 && r < NumRegions
}

func (r Region) Info() RegionInfo {
	if !r.Valid() {
		return RegionInfo{}
	}
	return registry[r]
}

func (r Region) String() string {
	if !r.Valid() {
		return "none"
	}
	return registry[r].ID
}

// ParseRegion looks a region up by its identifier.
func ParseRegion(id string) (Region, bool) {
	for _, r := range Regions {
		if registry[r].ID == id {
			return r, true
		}
	}
	return NoRegion, false
}

// RegionAt resolves a point in illustration space to a region. Boxes overlap
// slightly, so the first region in registry order wins.
func RegionAt(x, y float64) (Region, bool) {
	for _, r := range Regions {
		if registry[r].Bounds.Contains(x, y) {
			return r, true
		}
	}
	return NoRegion, false
}

func (r Region) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid region %d", int(r))
	}
	return []byte(registry[r].ID), nil
}

func (r *Region) UnmarshalText(b []byte) error {
	got, ok := ParseRegion(string(b))
	if !ok {
		return fmt.Errorf("unknown region %q", string(b))
	}
	*r = got
	return nil
}
