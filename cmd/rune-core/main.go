package main

import (
	"flag"
	"fmt"
	"log"

	elisp "github.com/rune-core/rune-core"
)

func main() {
	var (
		highlight = flag.Bool("highlight", false, "Print the demo value with ANSI highlighting")
		gcThresh  = flag.Int("gc-threshold", 0, "Override gc.threshold_cells (0 keeps the default)")
		collect   = flag.Bool("collect", false, "Force a collection after building the demo value and report stats")
	)
	flag.Parse()

	ctx := elisp.NewContext()
	if *gcThresh > 0 {
		ctx.Config().SetInt("gc.threshold_cells", *gcThresh)
	}

	v, err := demo(ctx)
	if err != nil {
		log.Fatalf("rune-core: %s", elisp.HighlightError(err))
	}

	if *highlight {
		fmt.Println(v.HighlightString())
	} else {
		fmt.Println(v.PrettyString())
	}

	if *collect {
		ctx.Collect()
		stats := ctx.Stats()
		fmt.Printf("live=%d collections=%d allocated=%d\n", stats.LiveCells, stats.Collections, stats.Allocated)
	}
}

// demo allocates a small list under a root guard, formats a message with
// it through the format builtin, and hands back the resulting String
// Value — allocation, rooting and formatting exercised in one pass end to
// end. The returned Value is not rooted.
func demo(ctx *elisp.Context) (elisp.Value, error) {
	items := []elisp.Value{
		elisp.FromInt(1),
		elisp.FromInt(2),
		elisp.FromInt(3),
	}

	lst, err := elisp.NewCons(ctx, items[0], elisp.Nil)
	if err != nil {
		return elisp.Value{}, err
	}
	root := elisp.Root(ctx, lst)
	defer root.Release()

	for i := len(items) - 1; i >= 1; i-- {
		next, err := elisp.NewCons(ctx, items[i], root.Get())
		if err != nil {
			return elisp.Value{}, err
		}
		root.Set(next)
	}

	msg, _, err := elisp.CallBuiltin(ctx, "format", []elisp.Value{
		mustString(ctx, "list: %s (%d items)"),
		root.Get(),
		elisp.FromInt(int64(len(items))),
	})
	if err != nil {
		return elisp.Value{}, err
	}
	return msg, nil
}

func mustString(ctx *elisp.Context, s string) elisp.Value {
	v, err := elisp.NewString(ctx, s)
	if err != nil {
		panic(err)
	}
	return v
}
