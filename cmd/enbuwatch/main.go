// Command enbuwatch is a reference C8 consumer: it supervises an `enbu
// run` invocation, prints a human-readable line per progress frame, and
// optionally serves those same frames to websocket subscribers for a live
// test UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9wick/enbu/progress"
	"github.com/9wick/enbu/supervisor"
)

func main() {
	var (
		enbuBin  = flag.String("enbu", "enbu", "path to the enbu binary to supervise")
		flowFile = flag.String("flow", "", "flow file to pass to `enbu run`")
		listen   = flag.String("listen", "", "if set, serve a websocket progress feed on this address (e.g. :8090)")
	)
	flag.Parse()

	if *flowFile == "" {
		fmt.Fprintln(os.Stderr, "usage: enbuwatch -flow <flow.yaml> [-enbu path] [-listen addr]")
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	sup := supervisor.New(*enbuBin, "run", *flowFile)

	var broadcaster *supervisor.Broadcaster
	if *listen != "" {
		broadcaster = supervisor.NewBroadcaster()
		supervisor.Handler(sup, broadcaster)
		go func() {
			log.Printf("serving progress websocket on %s", *listen)
			if err := http.ListenAndServe(*listen, broadcaster); err != nil {
				log.Printf("websocket server stopped: %v", err)
			}
		}()
	}

	done := make(chan error, 1)
	sup.OnFrame(printFrame)
	sup.OnError(func(err error) { log.Printf("frame error: %v", err) })
	sup.OnClose(func(err error) { done <- err })

	if err := sup.Start(ctx); err != nil {
		log.Fatalf("starting enbu: %v", err)
	}

	if err := <-done; err != nil {
		os.Exit(1)
	}
}

func printFrame(f progress.Frame) {
	switch f.Type {
	case progress.TypeFlowStart:
		stepTotal := 0
		if f.StepTotal != nil {
			stepTotal = *f.StepTotal
		}
		fmt.Printf("flow %s started (session %s, %d steps)\n", f.FlowName, f.SessionName, stepTotal)
	case progress.TypeStepStart:
		index := 0
		if f.StepIndex != nil {
			index = *f.StepIndex
		}
		fmt.Printf("  [%d] %s...\n", index, f.Tag)
	case progress.TypeStepComplete:
		index := 0
		if f.StepIndex != nil {
			index = *f.StepIndex
		}
		mark := "ok"
		if f.Status == progress.StatusFailed {
			mark = "FAIL: " + f.Error
		}
		duration := int64(0)
		if f.Duration != nil {
			duration = *f.Duration
		}
		fmt.Printf("  [%d] %s: %s (%dms)\n", index, f.Tag, mark, duration)
	case progress.TypeFlowComplete:
		duration := int64(0)
		if f.Duration != nil {
			duration = *f.Duration
		}
		fmt.Printf("flow %s (%s, %dms)\n", f.FlowName, f.Status, duration)
	}
}
