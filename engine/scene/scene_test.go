package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math/rand/v2"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/programs"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	held    map[common.Key]bool
	pressed map[common.Key]bool
	x, y    float64
}

var _ window.Input = &fakeInput{}

func (i *fakeInput) IsPressed(key common.Key) bool  { return i.held[key] }
func (i *fakeInput) WasPressed(key common.Key) bool { return i.pressed[key] }
func (i *fakeInput) MousePosition() (float64, float64) {
	return i.x, i.y
}

type fakeHost struct {
	input    *fakeInput
	sizes    *observable.Observable[common.Size]
	captured bool
	titles   []string
}

var _ Host = &fakeHost{}

func newFakeHost() *fakeHost {
	return &fakeHost{
		input: &fakeInput{held: map[common.Key]bool{}, pressed: map[common.Key]bool{}},
		sizes: observable.New(common.Size{Width: 800, Height: 600}),
	}
}

func (h *fakeHost) Input() window.Input                       { return h.input }
func (h *fakeHost) Sizes() *observable.Observable[common.Size] { return h.sizes }
func (h *fakeHost) SetCursorCaptured(captured bool)            { h.captured = captured }
func (h *fakeHost) SetTitle(title string)                      { h.titles = append(h.titles, title) }

func (h *fakeHost) title() string {
	if len(h.titles) == 0 {
		return ""
	}
	return h.titles[len(h.titles)-1]
}

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := range 2 {
		for y := range 2 {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testEnv struct {
	host *fakeHost
	rec  *renderertest.Recorder
	env  Env
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	files := fstest.MapFS{}
	tex := pngBytes(t, color.RGBA{R: 40, G: 160, B: 40, A: 255})
	for _, name := range []string{fenceTexture, grassTexture} {
		files["textures/"+name] = &fstest.MapFile{Data: tex}
	}
	settings := DefaultSettings()
	for _, faces := range [][6]string{settings.Skybox, brightSkybox} {
		for _, face := range faces {
			files["textures/"+face] = &fstest.MapFile{Data: tex}
		}
	}

	shaders, err := fs.Sub(programs.Shaders, programs.ShaderDir)
	require.NoError(t, err)
	house := model.NewModel(model.WithName("house"), model.WithMeshes(model.Cube()))
	assets := loader.NewAssetManager(
		loader.WithRootFS(files),
		loader.WithShaderFallback(shaders),
		loader.WithWorkers(2),
		loader.WithModel(settings.Model, house),
	)

	host := newFakeHost()
	rec := renderertest.New()
	return &testEnv{
		host: host,
		rec:  rec,
		env: Env{
			Ctx:      context.Background(),
			Binder:   shader.NewBinder(rec),
			Assets:   assets,
			Host:     host,
			Settings: settings,
			Rand:     rand.New(rand.NewPCG(1, 2)),
		},
	}
}

// frame renders one frame of s with keys pressed during it.
func (e *testEnv) frame(t *testing.T, s Scene, keys ...common.Key) {
	t.Helper()
	clear(e.host.input.pressed)
	for _, k := range keys {
		e.host.input.pressed[k] = true
	}
	require.NoError(t, e.rec.BeginFrame())
	s.Render(Frame{Delta: 1.0 / 60})
	e.rec.EndFrame()
	clear(e.host.input.pressed)
	assert.Nil(t, e.env.Binder.Active(), "a program is still bound after the frame")
}

type stubContent struct {
	frames  int
	handled []bool
	status  string
}

func (c *stubContent) RenderScene(Frame) {
	c.frames++
}

func (c *stubContent) HandleMenuKeys(input window.Input) bool {
	changed := input.WasPressed(common.KeyT)
	c.handled = append(c.handled, changed)
	return changed
}

func (c *stubContent) Status() string {
	return c.status
}

func TestBasicStartsInMenuAndEscToggles(t *testing.T) {
	e := newTestEnv(t)
	content := &stubContent{status: "stub status"}
	b := NewBasic(e.env, "stub", content)

	e.frame(t, b)
	assert.True(t, b.InMenu())
	assert.False(t, e.host.captured)
	assert.Contains(t, e.host.title(), "stub")
	assert.Contains(t, e.host.title(), "menu")
	assert.Contains(t, e.host.title(), "stub status")

	e.frame(t, b, common.KeyEsc)
	assert.False(t, b.InMenu())
	assert.True(t, e.host.captured)
	assert.NotContains(t, e.host.title(), "menu")

	e.frame(t, b, common.KeyEsc)
	assert.True(t, b.InMenu())
	assert.False(t, e.host.captured)
	assert.Equal(t, 3, content.frames)
}

func TestBasicMenuEditsSteps(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})
	c := b.Controller()
	sens, walk := c.SensitivityStep(), c.WalkingStep()

	e.frame(t, b, common.KeyUp)
	e.frame(t, b, common.KeyLeft)
	assert.Equal(t, sens+1, c.SensitivityStep())
	assert.Equal(t, walk-1, c.WalkingStep())

	e.frame(t, b, common.KeyPageUp)
	assert.Equal(t, float32(65), b.Camera().Projection().Fov())
	assert.Contains(t, e.host.title(), "fov 65")

	for range 20 {
		e.frame(t, b, common.KeyPageUp)
	}
	assert.Equal(t, float32(maxFov), b.Camera().Projection().Fov())
	for range 30 {
		e.frame(t, b, common.KeyPageDown)
	}
	assert.Equal(t, float32(minFov), b.Camera().Projection().Fov())
}

func TestBasicForwardsMenuKeysToContent(t *testing.T) {
	e := newTestEnv(t)
	content := &stubContent{}
	b := NewBasic(e.env, "stub", content)

	e.frame(t, b)
	titles := len(e.host.titles)
	e.frame(t, b)
	assert.Len(t, e.host.titles, titles, "unchanged parameters must not retitle")

	e.frame(t, b, common.KeyT)
	assert.Len(t, e.host.titles, titles+1)
	assert.Equal(t, []bool{false, false, true}, content.handled)

	e.frame(t, b, common.KeyEsc)
	e.frame(t, b, common.KeyT)
	assert.Len(t, content.handled, 3, "menu keys are ignored in scene mode")
}

func TestBasicWalksOnlyInSceneMode(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})
	start := b.Camera().Position()

	e.host.input.held[common.KeyW] = true
	e.frame(t, b)
	assert.Equal(t, start, b.Camera().Position())

	e.frame(t, b, common.KeyEsc)
	e.frame(t, b)
	assert.NotEqual(t, start, b.Camera().Position())
}

func TestBasicBackspaceExitsAndReentersInMenu(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})

	e.frame(t, b, common.KeyEsc)
	require.False(t, b.InMenu())
	assert.False(t, b.ShouldExit())

	e.frame(t, b, common.KeyEsc)
	e.frame(t, b, common.KeyBackspace)
	assert.True(t, b.ShouldExit())
	assert.False(t, b.ShouldExit(), "the exit request is consumed")

	e.host.captured = true
	e.frame(t, b)
	assert.True(t, b.InMenu())
	assert.False(t, e.host.captured)
}

func TestBasicProjectionFollowsHost(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})
	assert.Equal(t, common.Size{Width: 800, Height: 600}, b.Camera().Projection().Size())

	e.host.sizes.Notify(common.Size{Width: 1024, Height: 512})
	assert.Equal(t, common.Size{Width: 1024, Height: 512}, b.Camera().Projection().Size())

	b.Close()
	e.host.sizes.Notify(common.Size{Width: 640, Height: 480})
	assert.Equal(t, 0, e.host.sizes.Len())
}

func TestBasicCloseReleasesInReverseOrder(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})
	mesh, err := b.UploadMesh(model.Cube())
	require.NoError(t, err)
	tex, err := b.UploadTexture(grassTexture)
	require.NoError(t, err)

	var order []int
	b.OnClose(func() { order = append(order, 1) })
	b.OnClose(func() { order = append(order, 2) })

	b.Close()
	b.Close()
	assert.Equal(t, []int{2, 1}, order)
	assert.True(t, e.rec.Meshes[mesh].Released)
	assert.True(t, e.rec.Textures[tex].Released)
	assert.Panics(t, func() { b.Render(Frame{}) })
}

func TestBasicUploadTextureMissing(t *testing.T) {
	e := newTestEnv(t)
	b := NewBasic(e.env, "stub", &stubContent{})
	_, err := b.UploadTexture("missing.png")
	assert.ErrorIs(t, err, loader.ErrAssetNotFound)
}

type stubScene struct {
	id       string
	frames   int
	exit     bool
	closed   bool
	closeLog *[]string
}

func (s *stubScene) Render(Frame) { s.frames++ }
func (s *stubScene) ID() string   { return s.id }
func (s *stubScene) Close() {
	s.closed = true
	*s.closeLog = append(*s.closeLog, s.id)
}
func (s *stubScene) ShouldExit() bool {
	exit := s.exit
	s.exit = false
	return exit
}

func stubEntries(opened map[string]*stubScene, closeLog *[]string) []Entry {
	entry := func(id string) Entry {
		return Entry{ID: id, Open: func(Env) (Scene, error) {
			s := &stubScene{id: id, closeLog: closeLog}
			opened[id] = s
			return s, nil
		}}
	}
	return []Entry{entry("first"), entry("second"), {ID: "broken", Open: func(Env) (Scene, error) {
		return nil, errors.New("no gpu")
	}}}
}

func TestSwitcherSelectsByNumberKey(t *testing.T) {
	e := newTestEnv(t)
	opened := map[string]*stubScene{}
	var closeLog []string
	s := NewSwitcher(e.env, stubEntries(opened, &closeLog)...)

	e.frame(t, s)
	assert.Nil(t, s.Current())
	assert.Contains(t, e.host.title(), "1 first, 2 second, 3 broken")

	e.frame(t, s, common.Key2)
	require.NotNil(t, s.Current())
	assert.Equal(t, "second", s.Current().ID())
	assert.NotContains(t, opened, "first", "scenes are opened lazily")

	e.frame(t, s)
	e.frame(t, s)
	assert.Equal(t, 2, opened["second"].frames)

	opened["second"].exit = true
	e.frame(t, s)
	assert.Nil(t, s.Current())

	e.frame(t, s, common.Key2)
	e.frame(t, s)
	assert.Equal(t, 4, opened["second"].frames, "re-entering resumes the opened scene")
	assert.Len(t, opened, 1)
}

func TestSwitcherEscExits(t *testing.T) {
	e := newTestEnv(t)
	s := NewSwitcher(e.env, stubEntries(map[string]*stubScene{}, new([]string))...)

	e.frame(t, s)
	assert.False(t, s.ShouldExit())
	e.frame(t, s, common.KeyEsc)
	assert.True(t, s.ShouldExit())
	assert.False(t, s.ShouldExit())
	assert.Equal(t, SwitcherID, s.ID())
}

func TestSwitcherOpenFailure(t *testing.T) {
	e := newTestEnv(t)
	s := NewSwitcher(e.env, stubEntries(map[string]*stubScene{}, new([]string))...)

	assert.ErrorContains(t, s.Select("broken"), "no gpu")
	assert.ErrorContains(t, s.Select("nope"), "unknown scene")
	assert.Panics(t, func() { e.frame(t, s, common.Key3) })
}

func TestSwitcherCloseClosesOpenedScenes(t *testing.T) {
	e := newTestEnv(t)
	opened := map[string]*stubScene{}
	var closeLog []string
	s := NewSwitcher(e.env, stubEntries(opened, &closeLog)...)
	require.NoError(t, s.Select("second"))
	require.NoError(t, s.Select("first"))

	s.Close()
	assert.Equal(t, []string{"first", "second"}, closeLog)
	assert.Nil(t, s.Current())
}

func TestNewSwitcherRejectsDuplicates(t *testing.T) {
	e := newTestEnv(t)
	entry := Entry{ID: "same", Open: func(Env) (Scene, error) { return nil, nil }}
	assert.Panics(t, func() { NewSwitcher(e.env, entry, entry) })
}

func TestSkyboxFaces(t *testing.T) {
	faces := SkyboxFaces("sky", "png")
	assert.Equal(t, "sky/right.png", faces[0])
	assert.Equal(t, "sky/back.png", faces[5])
}
