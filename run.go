package thicket

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and per-frame behavior used by Run.
type RunConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	TPS    int    `toml:"tps"`
	Debug  bool   `toml:"debug"`

	// ShowStats enables Scene.ShowStats.
	ShowStats bool `toml:"show_stats"`

	ClearColor Color `toml:"clear_color"`

	// Sort is copied into Scene.AutoSort when Enabled.
	Sort SortConfig `toml:"sort"`
}

// SortConfig is the serialized form of AutoSort.
type SortConfig struct {
	Enabled   bool      `toml:"enabled"`
	Key       string    `toml:"key"`
	Order     SortOrder `toml:"order"`
	Recursive bool      `toml:"recursive"`
}

// defaultRunConfig holds the values used for unset RunConfig fields.
var defaultRunConfig = RunConfig{
	Title:  "thicket",
	Width:  640,
	Height: 480,
	TPS:    60,
}

// LoadRunConfig decodes a TOML run configuration. Unset fields keep their
// defaults.
func LoadRunConfig(data []byte) (RunConfig, error) {
	cfg := defaultRunConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return RunConfig{}, fmt.Errorf("thicket: parse run config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return RunConfig{}, fmt.Errorf("thicket: parse run config: unknown key %q", undecoded[0].String())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return RunConfig{}, fmt.Errorf("thicket: parse run config: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// apply copies the scene-level settings onto s.
func (cfg RunConfig) apply(s *Scene) {
	if cfg.ClearColor != (Color{}) {
		s.ClearColor = cfg.ClearColor
	}
	if cfg.Sort.Enabled {
		s.AutoSort = AutoSort{
			Enabled:   true,
			Key:       cfg.Sort.Key,
			Order:     cfg.Sort.Order,
			Recursive: cfg.Sort.Recursive,
		}
	}
	if cfg.ShowStats {
		s.ShowStats = true
	}
	if cfg.Debug {
		s.SetDebugMode(true)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o SortOrder) MarshalText() ([]byte, error) {
	switch o {
	case SortAscending:
		return []byte("ascending"), nil
	case SortDescending:
		return []byte("descending"), nil
	}
	return nil, fmt.Errorf("invalid sort order %d", o)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *SortOrder) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ascending", "asc":
		*o = SortAscending
	case "descending", "desc":
		*o = SortDescending
	default:
		return fmt.Errorf("invalid sort order %q", text)
	}
	return nil
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene  *Scene
	width  int
	height int
}

func (g *game) Update() error              { return g.scene.Update() }
func (g *game) Draw(screen *ebiten.Image)  { g.scene.Draw(screen) }
func (g *game) Layout(_, _ int) (int, int) { return g.width, g.height }

// Run opens a window and drives scene with Ebitengine's game loop until the
// window is closed or an update returns an error. Zero fields of cfg take
// the defaults of LoadRunConfig.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = defaultRunConfig.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = defaultRunConfig.Width, defaultRunConfig.Height
	}
	if cfg.TPS <= 0 {
		cfg.TPS = defaultRunConfig.TPS
	}
	cfg.apply(scene)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(&game{scene: scene, width: cfg.Width, height: cfg.Height})
}
