// Package engine assembles the UI orchestration engine from a collaborator
// context and a configuration.
//
// The engine owns one loop. Each Step runs, in order: queued input,
// posted completions, the animation clock, due script tasks, attract
// mode, the device effects drain, and frame submission. Every component
// is constructed here and borrows the collaborators in types.Context; the
// host application owns the context.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault("pinfront.toml")
//	eng, err := engine.New(cfg, &types.Context{Games: games, Renderer: r})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//	eng.Start(ctx)
//	eng.Step(time.Now()) // from the host's frame callback
package engine
