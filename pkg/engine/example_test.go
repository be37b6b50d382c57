package engine_test

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/engine"
	"github.com/matzehuels/netgraph/pkg/graph"
	"github.com/matzehuels/netgraph/pkg/render"
)

func Example() {
	surface := render.SurfaceFunc(func(f *render.Frame) error { return nil })
	e, err := engine.New(surface, config.Default(), engine.WithCallbacks(engine.Callbacks{
		OnNodeSelected: func(key string) { fmt.Println("selected", key) },
	}))
	if err != nil {
		panic(err)
	}
	defer e.Close()

	e.Load([]graph.NodeSpec{
		{Key: "1", Label: "Acme Ltda"},
		{Key: "2", Label: "Maria Silva"},
	}, []graph.EdgeSpec{{Source: "1", Target: "2"}})

	e.RunUntilSettled(context.Background(), 0)
	e.Select("2")
	drawn, _ := e.Frame(time.Now())

	fmt.Println("settled:", e.Settled())
	fmt.Println("drawn:", drawn)
	// Output:
	// selected 2
	// settled: true
	// drawn: true
}
