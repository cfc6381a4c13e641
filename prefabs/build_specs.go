package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type PersistentComponentSpec struct {
	ID string `yaml:"id"`
}

type ObstacleComponentSpec struct {
	Group string `yaml:"group"`
}

type SolidComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PathfinderComponentSpec struct {
	CellWidth     float64  `yaml:"cell_width"`
	CellHeight    float64  `yaml:"cell_height"`
	MaxIterations int      `yaml:"max_iterations"`
	WallGroups    []string `yaml:"wall_groups"`
	UseSolids     bool     `yaml:"use_solids"`
	Follow        bool     `yaml:"follow"`
}

// PathFollowerComponentSpec configures both path shapes. Shape is "rounded"
// (default) or "spline"; Stop is "hard" (default) or "decelerate".
type PathFollowerComponentSpec struct {
	Shape     string      `yaml:"shape"`
	Speed     float64     `yaml:"speed"`
	Accel     float64     `yaml:"accel"`
	Decel     float64     `yaml:"decel"`
	Stop      string      `yaml:"stop"`
	Rounding  float64     `yaml:"rounding"`
	Tension   float64     `yaml:"tension"`
	Quality   int         `yaml:"quality"`
	SetAngle  bool        `yaml:"set_angle"`
	Waypoints []PointSpec `yaml:"waypoints"`
	AutoStart bool        `yaml:"auto_start"`
}

type TileMoverComponentSpec struct {
	CellWidth  float64    `yaml:"cell_width"`
	CellHeight float64    `yaml:"cell_height"`
	Speed      float64    `yaml:"speed"`
	Diagonals  bool       `yaml:"diagonals"`
	Tiles      []TileSpec `yaml:"tiles"`
	AutoStart  bool       `yaml:"auto_start"`
}

type CellWalkerComponentSpec struct {
	CellWidth  float64  `yaml:"cell_width"`
	CellHeight float64  `yaml:"cell_height"`
	Speed      float64  `yaml:"speed"`
	WallGroups []string `yaml:"wall_groups"`
	UseSolids  bool     `yaml:"use_solids"`
	SetAngle   bool     `yaml:"set_angle"`
}

// SmoothFollowerComponentSpec uses *bool for enabled so an omitted key
// means enabled.
type SmoothFollowerComponentSpec struct {
	Enabled         *bool   `yaml:"enabled"`
	Mode            string  `yaml:"mode"`
	MaxSpeed        float64 `yaml:"max_speed"`
	MinSpeed        float64 `yaml:"min_speed"`
	Decel           float64 `yaml:"decel"`
	RotationSpeed   float64 `yaml:"rotation_speed"`
	EffectiveRadius float64 `yaml:"effective_radius"`
	StopOnSolids    bool    `yaml:"stop_on_solids"`
	TargetGroup     string  `yaml:"target_group"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
}

// SwarmerComponentSpec uses *bool for active so an omitted key means
// active.
type SwarmerComponentSpec struct {
	Active          *bool    `yaml:"active"`
	MaxSpeed        float64  `yaml:"max_speed"`
	RotationSpeed   float64  `yaml:"rotation_speed"`
	Flip            bool     `yaml:"flip"`
	RepulsionRadius float64  `yaml:"repulsion_radius"`
	RepulsionForce  float64  `yaml:"repulsion_force"`
	TargetGroup     string   `yaml:"target_group"`
	AvoidGroups     []string `yaml:"avoid_groups"`
	UseSolids       bool     `yaml:"use_solids"`
	Width           float64  `yaml:"width"`
	Height          float64  `yaml:"height"`
}

// ChainComponentSpec drags Segments bodies built from BodyPrefab. Mode is
// "distance" (default) or "history".
type ChainComponentSpec struct {
	Segments   int     `yaml:"segments"`
	Spacing    float64 `yaml:"spacing"`
	Smoothness float64 `yaml:"smoothness"`
	Mode       string  `yaml:"mode"`
	BodyPrefab string  `yaml:"body_prefab"`
	AutoBuild  bool    `yaml:"auto_build"`
}

type FollowTargetComponentSpec struct {
	Group string `yaml:"group"`
}

type ScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type DebugComponentSpec struct {
	Color *YAMLColor `yaml:"color"`
	Size  float64    `yaml:"size"`
}
