package scene

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// SwitcherID is the identifier of the scene menu.
const SwitcherID = "scene-switcher"

// Entry is a scene the Switcher can open.
type Entry struct {
	// ID is the scene identifier, matching Scene.ID of the opened scene.
	ID string
	// Open creates the scene. It is called the first time the scene is selected.
	Open func(env Env) (Scene, error)
}

// Catalog returns the viewer's scenes in menu order.
func Catalog() []Entry {
	return []Entry{
		{ID: ForestID, Open: NewForest},
		{ID: LightningBallsID, Open: NewLightningBalls},
		{ID: ForestLightsID, Open: NewForestLights},
		{ID: HelloTextureID, Open: NewHelloTexture},
		{ID: ModelsID, Open: NewModels},
		{ID: FirefliesID, Open: NewFireflies},
		{ID: TriangleID, Open: NewTriangle},
	}
}

// Switcher is the top-level scene. Without a current scene it shows the menu: number key n
// opens the n-th entry and ESC leaves the viewer. With a current scene it forwards every frame
// to it until the scene asks to exit, then returns to the menu. Opened scenes are kept until
// Close, so re-entering a scene resumes it.
type Switcher struct {
	env     Env
	entries []Entry
	opened  map[string]Scene
	current Scene
	running bool
	titled  bool
}

var _ Scene = &Switcher{}

// NewSwitcher creates the menu over entries. Entry identifiers must be unique and at most nine
// entries fit on the number keys.
//
// Parameters:
//   - env: the environment passed to every opened scene
//   - entries: the selectable scenes in menu order
//
// Returns:
//   - *Switcher: the switcher, showing the menu
func NewSwitcher(env Env, entries ...Entry) *Switcher {
	if len(entries) > 9 {
		panic(fmt.Sprintf("scene: %d entries do not fit on the number keys", len(entries)))
	}
	for i, e := range entries {
		if slices.ContainsFunc(entries[:i], func(o Entry) bool { return o.ID == e.ID }) {
			panic(fmt.Sprintf("scene: duplicate entry %s", e.ID))
		}
	}
	return &Switcher{
		env:     env,
		entries: entries,
		opened:  make(map[string]Scene),
		running: true,
	}
}

// Select opens the scene with the given id, or resumes it if it was opened before, and makes
// it current.
//
// Parameters:
//   - id: the entry identifier
//
// Returns:
//   - error: error if no entry has the id or the scene cannot be created
func (s *Switcher) Select(id string) error {
	i := slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("unknown scene %q", id)
	}
	sc, ok := s.opened[id]
	if !ok {
		var err error
		if sc, err = s.entries[i].Open(s.env); err != nil {
			return fmt.Errorf("failed to open %s: %w", id, err)
		}
		s.opened[id] = sc
	}
	log.Printf("[Scene] changing scene to: %s", id)
	s.current = sc
	return nil
}

// Current returns the current scene, or nil while the menu is shown.
func (s *Switcher) Current() Scene {
	return s.current
}

func (s *Switcher) Render(frame Frame) {
	if s.current != nil {
		s.current.Render(frame)
		if s.current.ShouldExit() {
			s.current = nil
			s.titled = false
		}
		return
	}

	if !s.titled {
		s.showMenu()
	}
	input := s.env.Host.Input()
	if input.WasPressed(common.KeyEsc) {
		s.running = false
		return
	}
	for i, e := range s.entries {
		key, _ := common.DigitKey(i + 1)
		if !input.WasPressed(key) {
			continue
		}
		if err := s.Select(e.ID); err != nil {
			panic(fmt.Sprintf("scene: %v", err))
		}
		return
	}
}

func (s *Switcher) showMenu() {
	s.titled = true
	s.env.Host.SetCursorCaptured(false)
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = fmt.Sprintf("%d %s", i+1, e.ID)
	}
	s.env.Host.SetTitle("oxy-viewer | select a scene: " + strings.Join(names, ", ") + " | ESC quit")
}

// ShouldExit reports true once after ESC was pressed in the menu.
func (s *Switcher) ShouldExit() bool {
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Switcher) ID() string {
	return SwitcherID
}

// Close closes every opened scene.
func (s *Switcher) Close() {
	for _, e := range s.entries {
		if sc, ok := s.opened[e.ID]; ok {
			sc.Close()
		}
	}
	clear(s.opened)
	s.current = nil
}
