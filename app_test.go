package backdrop

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_addResourcesRejectsValues(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() { app.addResources(MockResource1{name: "by value"}) })
}

func TestResource(t *testing.T) {
	app := NewApp()
	res := NewMockResource1("found")
	app.addResources(res)

	got, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Same(t, res, got)

	_, ok = Resource[MockResource2](app)
	assert.False(t, ok)
}

func TestApp_callSystemResolvesResources(t *testing.T) {
	app := NewApp()
	app.addResources(NewMockResource1("one"), NewMockResource2("two"))

	var seen []string
	app.callSystem(func(r1 *MockResource1, r2 *MockResource2, cmd *Commands) {
		require.NotNil(t, cmd)
		seen = append(seen, r1.name, r2.name)
	})
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestApp_callSystemPanicsOnMissingDependency(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.callSystem(func(r *MockResource1) {})
	})
}

func TestApp_callSystemPanicsOnValueArgument(t *testing.T) {
	app := NewApp()
	app.addResources(NewMockResource1("one"))
	assert.Panics(t, func() {
		app.callSystem(func(r MockResource1) {})
	})
}

func TestApp_TickRunsStagesInOrder(t *testing.T) {
	app := NewApp()
	var order []string
	for _, stage := range []Stage{Finale, Render, Update, Prelude} {
		name := stage.Name
		app.UseSystem(System(func() { order = append(order, name) }).InStage(stage))
	}

	app.Tick()
	assert.Equal(t, []string{"Prelude", "Update", "Render", "Finale"}, order)
	assert.EqualValues(t, 1, app.Frames())
}

func TestApp_UseStage(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	var order []string
	app.UseSystem(System(func() { order = append(order, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { order = append(order, "custom") }).InStage(custom))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.Tick()

	assert.Equal(t, []string{"update", "custom", "post"}, order)
	assert.Panics(t, func() { app.UseStage(custom, BeforeStage(Render)) })
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Missing"})) })
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"})) })
}

func TestApp_RunStopsOnExit(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frames() == 2 {
			cmd.Exit()
		}
	}))

	app.Run(context.Background())
	assert.True(t, app.ExitRequested())
	assert.EqualValues(t, 3, app.Frames())
}

func TestApp_RunStopsOnCancelledContext(t *testing.T) {
	app := NewApp()
	tornDown := false
	app.Commands().OnTeardown(func() { tornDown = true })

	ctx, cancel := context.WithCancel(context.Background())
	app.UseSystem(System(func() {
		if app.Frames() == 4 {
			cancel()
		}
	}))

	app.Run(ctx)
	assert.EqualValues(t, 5, app.Frames(), "the frame in flight completes")
	assert.True(t, tornDown)
}

func TestApp_TeardownReverseOrderOnce(t *testing.T) {
	app := NewApp()
	var order []int
	cmd := app.Commands()
	for i := 1; i <= 3; i++ {
		cmd.OnTeardown(func() { order = append(order, i) })
	}

	app.Teardown()
	app.Teardown()
	assert.Equal(t, []int{3, 2, 1}, order)
}
